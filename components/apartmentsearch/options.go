package apartmentsearch

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/session"
)

const defaultMaxEventBytes = 16 << 10

// GuardFunc runs before every request. Returning an HTTPError picks the status
// code; any other error is a 403.
type GuardFunc func(r *http.Request) error

// SubmitFunc delivers a submitted record to whatever owns it (CRM, mailer,
// queue). An error keeps the session open and answers 502.
type SubmitFunc func(ctx context.Context, sessionID string, sub intake.Submission) error

type Options struct {
	BasePath      string
	FormID        string
	Renderer      string
	ThemeName     string
	ThemeVariant  string
	SessionTTL    time.Duration
	MaxSessions   int
	MaxPending    int
	MaxEventBytes int64
	EngineOptions []intake.Option
	StoreOptions  []session.Option

	Orchestrator *orchestrator.Orchestrator
	Submit       SubmitFunc
	Guard        GuardFunc
	Logger       *zap.Logger
	Registerer   prometheus.Registerer
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		BasePath:      "/",
		FormID:        model.DefaultFormID,
		SessionTTL:    session.DefaultTTL,
		MaxSessions:   session.DefaultMaxSessions,
		MaxPending:    session.DefaultMaxPending,
		MaxEventBytes: defaultMaxEventBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.BasePath == "" {
		opts.BasePath = "/"
	}
	if opts.FormID == "" {
		opts.FormID = model.DefaultFormID
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = session.DefaultMaxSessions
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = session.DefaultMaxPending
	}
	if opts.MaxEventBytes <= 0 {
		opts.MaxEventBytes = defaultMaxEventBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.EngineOptions != nil {
		opts.EngineOptions = append([]intake.Option{}, opts.EngineOptions...)
	}
	if opts.StoreOptions != nil {
		opts.StoreOptions = append([]session.Option{}, opts.StoreOptions...)
	}
	return opts
}

func WithBasePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BasePath = path
	}
}

func WithFormID(id string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormID = id
	}
}

// WithRenderer picks the renderer used for GET /. Empty means the
// orchestrator default.
func WithRenderer(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = name
	}
}

// WithTheme sets the theme and variant used when the request names none
// through the theme and variant query parameters.
func WithTheme(name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = ttl
	}
}

func WithMaxSessions(n int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxSessions = n
	}
}

// WithMaxPending caps sessions served a page but not yet sent an event.
func WithMaxPending(n int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxPending = n
	}
}

func WithMaxEventBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxEventBytes = n
	}
}

func WithEngineOptions(options ...intake.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EngineOptions = append(o.EngineOptions, options...)
	}
}

// WithStoreOptions forwards options to the session store. They apply after
// the TTL, size and engine settings.
func WithStoreOptions(options ...session.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.StoreOptions = append(o.StoreOptions, options...)
	}
}

func WithOrchestrator(orch *orchestrator.Orchestrator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Orchestrator = orch
	}
}

func WithSubmit(fn SubmitFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Submit = fn
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithRegisterer enables Prometheus metrics on reg.
func WithRegisterer(reg prometheus.Registerer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registerer = reg
	}
}
