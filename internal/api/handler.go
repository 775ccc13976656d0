package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"polymer-kinetics-api/internal/kinetics"
	"polymer-kinetics-api/internal/models"
	"polymer-kinetics-api/internal/parser"
	"polymer-kinetics-api/internal/upstream"
	"polymer-kinetics-api/pkg/logger"
)

// Kinetics is implemented by *kinetics.Service.
type Kinetics interface {
	Monomers(ctx context.Context, identifier string) ([]string, error)
	Coefficients(ctx context.Context, identifier, monomer string) (models.CoefficientSet, error)
	CalculateKp(ctx context.Context, identifier, monomer string, celsius float64) (models.KpResult, error)
}

type Options struct {
	// StaticDir is served under /static/. Empty disables static files.
	StaticDir string
	// RequestTimeout bounds the upstream work of a single request.
	RequestTimeout time.Duration
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

type Handler struct {
	svc     Kinetics
	log     *logger.Logger
	opts    Options
	started time.Time
}

func New(svc Kinetics, l *logger.Logger, opts Options) *Handler {
	return &Handler{svc: svc, log: l, opts: opts, started: time.Now()}
}

// Routes returns the API wrapped in the request id, CORS and logging middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /monomers/{identifier}", h.monomers)
	mux.HandleFunc("GET /kp/{monomer}/{identifier}", h.coefficients)
	mux.HandleFunc("GET /calculate-kp", h.calculateKp)
	mux.HandleFunc("GET /data", h.data)
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/images/favicon.ico", http.StatusFound)
	})
	if h.opts.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(h.opts.StaticDir))))
	}
	if h.opts.Metrics != nil {
		mux.Handle("GET /metrics", h.opts.Metrics)
	}

	return withRequestID(withCORS(logRequest(h.log, mux)))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"Name":        "geek",
		"Age":         "22",
		"Date":        h.started,
		"programming": "go",
	})
}

// GET /monomers/{identifier}
func (h *Handler) monomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	names, err := h.svc.Monomers(ctx, r.PathValue("identifier"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// GET /kp/{monomer}/{identifier}
func (h *Handler) coefficients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	set, err := h.svc.Coefficients(ctx, r.PathValue("identifier"), r.PathValue("monomer"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// GET /calculate-kp?identifier=name&monomer=styrene&temperature=25
func (h *Handler) calculateKp(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("temperature")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "temperature is required"})
		return
	}
	temperature, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "temperature must be a number"})
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	kp, err := h.svc.CalculateKp(ctx, q.Get("identifier"), q.Get("monomer"), temperature)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kp)
}

// GET /data?user=value echoes value.
func (h *Handler) data(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("user") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user is required"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(r.URL.Query().Get("user")))
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.opts.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.opts.RequestTimeout)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	switch {
	case code == http.StatusInternalServerError:
		h.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	case code > http.StatusInternalServerError:
		h.log.Warnf("%s %s: upstream failure: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var (
		statusErr    *upstream.StatusError
		structureErr *parser.StructureError
		paramErr     *kinetics.MissingParameterError
	)
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, kinetics.ErrMonomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &statusErr),
		errors.As(err, &structureErr),
		errors.As(err, &paramErr),
		errors.Is(err, parser.ErrNoReference):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
