package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/pipeline"
)

const (
	headerRequestID = "X-Request-ID"
	headerRunID     = "X-Run-ID"
	headerErrorCode = "X-Error-Code"

	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated pom.xml over HTTP",
		Long: `Serve runs an HTTP server that generates the POM on every request.

Endpoints:
  GET /pom.xml   the POM document
  GET /pom.json  run metadata and resolved dependencies
  GET /healthz   liveness probe

/pom.xml and /pom.json accept the query parameters robolectric_version,
version_source, sdk_order and refresh.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, backend)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: none, file, redis or mongo")
	return cmd
}

// runServe serves until ctx is cancelled, then drains in-flight requests.
func (c *CLI) runServe(ctx context.Context, addr, backend string) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, backend)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(runner, c.config, logger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	c.ui.info("Serving pom.xml")
	c.ui.keyValue("listen", addr)
	c.ui.keyValue("cache", runnerBackend(c.config, backend))
	logger.Info("server started", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "shutdown")
	}
	return ctx.Err()
}

func runnerBackend(cfg *Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Cache.Backend
}

// newRouter builds the HTTP routes around runner.
func newRouter(runner *pipeline.Runner, cfg *Config, logger *log.Logger) http.Handler {
	h := &pomHandler{runner: runner, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/pom.xml", h.pomXML)
	r.Get("/pom.json", h.pomJSON)
	return r
}

// requestID tags every response with a uuid, reusing the caller's ID when
// one was sent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Millisecond),
				"request_id", w.Header().Get(headerRequestID))
		})
	}
}

type pomHandler struct {
	runner *pipeline.Runner
	cfg    *Config
	logger *log.Logger
}

// pomResponse is the /pom.json body.
type pomResponse struct {
	RunID              string   `json:"run_id"`
	RobolectricVersion string   `json:"robolectric_version"`
	SdkVersion         string   `json:"sdk_version"`
	Dependencies       []string `json:"dependencies"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

func (h *pomHandler) pomXML(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(result.POM)))
	_, _ = w.Write(result.POM)
}

func (h *pomHandler) pomJSON(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}
	resp := pomResponse{
		RunID:              result.RunID,
		RobolectricVersion: result.RobolectricVersion,
		SdkVersion:         result.SdkVersion,
		Dependencies:       make([]string, 0, len(result.Dependencies)),
	}
	for _, d := range result.Dependencies {
		resp.Dependencies = append(resp.Dependencies, d.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// run executes the pipeline for one request. On failure it writes the error
// response and returns false.
func (h *pomHandler) run(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	opts := h.cfg.pipelineOptions()
	q := r.URL.Query()
	if v := q.Get("robolectric_version"); v != "" {
		opts.RobolectricVersion = v
	}
	if v := q.Get("version_source"); v != "" {
		opts.VersionSource = v
	}
	if v := q.Get("sdk_order"); v != "" {
		opts.SdkOrder = v
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "invalid refresh value %q", v))
			return nil, false
		}
		opts.Refresh = refresh
	}
	opts.Logger = h.logger.With("request_id", w.Header().Get(headerRequestID))

	result, err := h.runner.Execute(r.Context(), opts)
	if err != nil {
		opts.Logger.Error("generate failed", "err", err)
		writeError(w, err)
		return nil, false
	}
	w.Header().Set(headerRunID, result.RunID)
	return result, true
}

// statusFor maps an error to the HTTP status returned to clients.
func statusFor(err error) int {
	switch code := perrors.GetCode(err); {
	case code == perrors.ErrCodeInvalidInput, code == perrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case code == perrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case pipeline.IsNetworkFailure(err), code == perrors.ErrCodeParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	w.Header().Set(headerErrorCode, string(code))
	writeJSON(w, statusFor(err), errorResponse{
		Code:    string(code),
		Stage:   pipeline.FailedStage(err),
		Message: perrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
