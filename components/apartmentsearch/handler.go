package apartmentsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/openapi"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadform/pkg/session"
	"github.com/goliatone/go-leadform/pkg/themes"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type eventResponse struct {
	Outcome  intake.Outcome  `json:"outcome"`
	Snapshot intake.Snapshot `json:"snapshot"`
}

func (c *Component) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", c.instrument("createSession", c.handleCreate))
	mux.Handle("GET /sessions/{id}", c.instrument("getSnapshot", c.handleSnapshot))
	mux.Handle("DELETE /sessions/{id}", c.instrument("abandonSession", c.handleAbandon))
	mux.Handle("POST /sessions/{id}/events", c.instrument("applyEvent", c.handleEvent))
	mux.Handle("POST /sessions/{id}/submit", c.instrument("submitSession", c.handleSubmit))
	mux.Handle("GET /openapi.json", c.instrument("getOpenAPI", c.handleOpenAPI))
	mux.Handle("GET /schema/submission.json", c.instrument("getSubmissionSchema", c.handleSubmissionSchema))
	mux.Handle("GET /assets/{file}", c.instrument("getAsset", c.handleAsset))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.opts.Guard != nil {
			if err := c.opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}
		mux.ServeHTTP(w, r)
	})
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// instrument adapts fn to http.Handler, turning returned errors into JSON
// error bodies and recording the request latency under route.
func (c *Component) instrument(route string, fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if err := fn(rec, r); err != nil {
			code := writeError(rec, err)
			if code >= http.StatusInternalServerError {
				c.logger.Error("request failed",
					zap.String("route", route),
					zap.Int("status", code),
					zap.Error(err),
				)
			}
		}
		c.metrics.request(route, rec.status, time.Since(start))
	})
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) error {
	sess := c.store.Create()

	query := r.URL.Query()
	themeName := query.Get("theme")
	if themeName == "" {
		themeName = c.opts.ThemeName
	}
	variant := query.Get("variant")
	if variant == "" {
		variant = c.opts.ThemeVariant
	}

	snap, err := sess.Snapshot()
	if err != nil {
		return err
	}

	renderer, err := c.orch.Renderer(c.opts.Renderer)
	if err != nil {
		c.drop(sess)
		return err
	}

	id := sess.ID()
	out, err := c.orch.Render(r.Context(), orchestrator.Request{
		FormID:       c.opts.FormID,
		Snapshot:     snap,
		Renderer:     renderer.Name(),
		ThemeName:    themeName,
		ThemeVariant: variant,
		RenderOptions: render.RenderOptions{
			HiddenFields: render.MergeHiddenFields(nil, render.SessionField(id)),
			Endpoints: render.Endpoints{
				Events: mountPath(c.opts.BasePath, "/sessions/"+id+"/events"),
				Submit: mountPath(c.opts.BasePath, "/sessions/"+id+"/submit"),
				Assets: mountPath(c.opts.BasePath, "/assets"),
			},
		},
	})
	if err != nil {
		c.drop(sess)
		if errors.Is(err, themes.ErrThemeNotFound) || errors.Is(err, themes.ErrVariantNotFound) {
			return StatusError{Code: http.StatusBadRequest, Err: err}
		}
		return err
	}

	c.metrics.session(outcomeCreated)
	c.logger.Debug("session created", zap.String("session", id), zap.String("theme", themeName))

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
	return nil
}

func (c *Component) handleSnapshot(w http.ResponseWriter, r *http.Request) error {
	sess, err := c.session(r)
	if err != nil {
		return err
	}
	snap, err := sess.Snapshot()
	if err != nil {
		return sessionError(err)
	}
	return writeJSON(w, http.StatusOK, snap)
}

func (c *Component) handleEvent(w http.ResponseWriter, r *http.Request) error {
	sess, err := c.session(r)
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.opts.MaxEventBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var ev intake.Event
	if err := dec.Decode(&ev); err != nil {
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("decode event: %w", err)}
	}
	if ev.Field == "" {
		return StatusError{Code: http.StatusBadRequest, Err: errors.New("decode event: missing field")}
	}

	out, snap, err := sess.Apply(ev)
	c.metrics.event(ev.Field, out, err)
	if err != nil {
		c.logger.Debug("event refused",
			zap.String("session", sess.ID()),
			zap.String("field", string(ev.Field)),
			zap.Error(err),
		)
		return sessionError(err)
	}
	return writeJSON(w, http.StatusOK, eventResponse{Outcome: out, Snapshot: snap})
}

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) error {
	sess, err := c.session(r)
	if err != nil {
		return err
	}

	var deliver session.DeliverFunc
	if c.opts.Submit != nil {
		deliver = session.DeliverFunc(c.opts.Submit)
	}
	sub, err := sess.Submit(r.Context(), deliver)
	if err != nil {
		if errors.Is(err, session.ErrSessionClosed) {
			return sessionError(err)
		}
		c.logger.Warn("submission delivery failed", zap.String("session", sess.ID()), zap.Error(err))
		return StatusError{Code: http.StatusBadGateway, Err: err}
	}
	c.store.Discard(sess.ID())

	c.metrics.session(outcomeSubmitted)
	c.logger.Info("session submitted",
		zap.String("session", sess.ID()),
		zap.Int("issues", len(sub.Issues)),
	)
	return writeJSON(w, http.StatusOK, sub)
}

func (c *Component) handleAbandon(w http.ResponseWriter, r *http.Request) error {
	sess, err := c.session(r)
	if err != nil {
		return err
	}
	if err := sess.Abandon(r.Context()); err != nil {
		return sessionError(err)
	}
	c.store.Discard(sess.ID())

	c.metrics.session(outcomeAbandoned)
	c.logger.Info("session abandoned", zap.String("session", sess.ID()))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (c *Component) handleOpenAPI(w http.ResponseWriter, _ *http.Request) error {
	c.docOnce.Do(func() {
		c.doc, c.docErr = openapi.MarshalDocument(context.Background(), c.opts.BasePath)
	})
	if c.docErr != nil {
		return c.docErr
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.doc)
	return nil
}

func (c *Component) handleSubmissionSchema(w http.ResponseWriter, _ *http.Request) error {
	data, err := openapi.MarshalSchema(openapi.SubmissionSchema())
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

func (c *Component) handleAsset(w http.ResponseWriter, r *http.Request) error {
	name := r.PathValue("file")
	assets := vanilla.AssetsFS()
	info, err := fs.Stat(assets, name)
	if err != nil || info.IsDir() {
		return StatusError{Code: http.StatusNotFound, Err: fmt.Errorf("asset %q not found", name)}
	}
	http.ServeFileFS(w, r, assets, name)
	return nil
}

func (c *Component) session(r *http.Request) (*session.Session, error) {
	sess, err := c.store.Get(r.PathValue("id"))
	if err != nil {
		return nil, sessionError(err)
	}
	return sess, nil
}

// drop closes a session that never reached the visitor.
func (c *Component) drop(sess *session.Session) {
	_ = sess.Abandon(context.Background())
	c.store.Discard(sess.ID())
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return StatusError{Code: http.StatusNotFound, Err: err}
	case errors.Is(err, session.ErrSessionClosed),
		errors.Is(err, session.ErrStaleEvent):
		return StatusError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, intake.ErrUnsupportedField),
		errors.Is(err, intake.ErrUnknownOption),
		errors.Is(err, intake.ErrInvalidValue):
		return StatusError{Code: http.StatusUnprocessableEntity, Err: err}
	default:
		return err
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	return enc.Encode(v)
}

// writeError writes err as a JSON body and returns the status used.
func writeError(w http.ResponseWriter, err error) int {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		code = http.StatusRequestEntityTooLarge
	}
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	_ = writeJSON(w, code, errorResponse{Error: msg, Status: code})
	return code
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	_ = writeJSON(w, code, errorResponse{Error: http.StatusText(code), Status: code})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
