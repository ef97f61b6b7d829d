package apartmentsearch

import (
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/session"
)

// Component wires the session store, the orchestrator and the HTTP routes of
// the apartment-search form.
type Component struct {
	opts    Options
	orch    *orchestrator.Orchestrator
	store   *session.Store
	metrics *Metrics
	logger  *zap.Logger
	handler http.Handler

	docOnce sync.Once
	doc     []byte
	docErr  error
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)

	orch := opts.Orchestrator
	if orch == nil {
		orch = orchestrator.New()
	}
	if _, err := orch.Renderer(opts.Renderer); err != nil {
		return nil, fmt.Errorf("apartmentsearch: %w", err)
	}

	c := &Component{
		opts:   opts,
		orch:   orch,
		logger: opts.Logger.With(zap.String("component", "apartmentsearch")),
	}
	c.metrics = NewMetrics(opts.Registerer, func() int {
		if c.store == nil {
			return 0
		}
		return c.store.Len()
	})

	storeOptions := []session.Option{
		session.WithTTL(opts.SessionTTL),
		session.WithMaxSessions(opts.MaxSessions),
		session.WithMaxPending(opts.MaxPending),
		session.WithEngineOptions(opts.EngineOptions...),
		session.WithEvictHook(c.evicted),
	}
	c.store = session.NewStore(append(storeOptions, opts.StoreOptions...)...)
	c.handler = c.routes()
	return c, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Store exposes the live session store.
func (c *Component) Store() *session.Store {
	return c.store
}

// Handler serves the component routes relative to "/". Use RegisterRoutes to
// mount it under the configured base path.
func (c *Component) Handler() http.Handler {
	return c.handler
}

// RegisterRoutes registers the component under its base path on mux.
func (c *Component) RegisterRoutes(mux Mux) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("apartmentsearch: missing mux")
	}
	pattern := MountPath(c.opts.BasePath)
	prefix := stripPath(c.opts.BasePath)
	if prefix == "" {
		mux.Handle(pattern, c.handler)
	} else {
		mux.Handle(pattern, http.StripPrefix(prefix, c.handler))
	}
	return pattern, nil
}

// Close abandons every live session.
func (c *Component) Close() {
	if c == nil || c.store == nil {
		return
	}
	c.store.Close()
}

// evicted runs for sessions the store abandons on its own: idle expiry, the
// size cap or shutdown.
func (c *Component) evicted(sess *session.Session) {
	c.metrics.session(outcomeEvicted)
	c.logger.Info("session evicted",
		zap.String("session", sess.ID()),
		zap.Duration("age", sess.ClosedAt().Sub(sess.CreatedAt())),
	)
}
