package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/debtlab/loan-cli/internal/config"
	"github.com/debtlab/loan-cli/internal/engine"
	"github.com/debtlab/loan-cli/internal/model"
	"github.com/debtlab/loan-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP evaluation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, cfg),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API router. Separated from the serve command so
// tests can drive it with httptest.
func newRouter(st store.Store, c *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: c.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(rateLimiter(c.Server.RatePerSecond, c.Server.RateBurst))

	s := &apiServer{store: st, cfg: c}

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/sweep", s.handleSweep)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return r
}

// rateLimiter applies one shared token bucket across all clients.
func rateLimiter(perSecond float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSONError(w, http.StatusTooManyRequests, eris.New("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type apiServer struct {
	store store.Store
	cfg   *config.Config
}

// evaluateRequest is the POST body for /v1/evaluate and /v1/sweep.
// Inputs holds partial overrides merged over the configured defaults,
// after the preset (if any) has been applied.
type evaluateRequest struct {
	Preset string          `json:"preset,omitempty"`
	Shock  bool            `json:"shock,omitempty"`
	Save   bool            `json:"save,omitempty"`
	Grid   bool            `json:"grid,omitempty"`
	Inputs json.RawMessage `json:"inputs,omitempty"`
}

// resolve layers the request onto the configured defaults the same way
// the CLI flags do.
func (s *apiServer) resolve(req evaluateRequest) (engine.Inputs, error) {
	in := s.cfg.Inputs()

	if req.Preset != "" {
		presets, err := config.LoadPresets(s.cfg.Presets.File)
		if err != nil {
			return engine.Inputs{}, err
		}
		p, ok := presets[req.Preset]
		if !ok {
			return engine.Inputs{}, eris.Wrapf(engine.ErrInvalidInput, "unknown preset %q", req.Preset)
		}
		in = p.Apply(in)
	}

	if len(req.Inputs) > 0 {
		if err := json.Unmarshal(req.Inputs, &in); err != nil {
			return engine.Inputs{}, eris.Wrap(engine.ErrInvalidInput, err.Error())
		}
	}

	if req.Shock {
		in = in.WithShock(s.cfg.Defaults.ShockReturnPercent)
	}

	return in, nil
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}

	in, err := s.resolve(req)
	if err != nil {
		writeJSONError(w, statusForError(err), err)
		return
	}

	opts := s.cfg.Options()
	opts.IncludeGrid = req.Grid

	report, evalErr := engine.Evaluate(in, opts)

	if req.Save {
		run, err := s.store.CreateRun(r.Context(), req.Preset, in, report, evalErr)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("X-Run-ID", run.ID)
	}

	if evalErr != nil {
		writeJSONError(w, statusForError(evalErr), evalErr)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}

	in, err := s.resolve(req)
	if err != nil {
		writeJSONError(w, statusForError(err), err)
		return
	}

	opts := s.cfg.Options()
	terms := in.Terms()

	if req.Grid {
		grid, err := engine.SweepGrid(terms, in.MonthlyRent, in.DiscountRatePercent,
			opts.GridRates.Samples(), opts.GridGrowths.Samples())
		if err != nil {
			writeJSONError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, grid)
		return
	}

	rates := opts.RateSweep.Samples()
	diffs, err := engine.SweepByRate(terms, in.MonthlyRent, in.DiscountRatePercent,
		in.PriceGrowthPercent, rates)
	if err != nil {
		writeJSONError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, engine.RateSweep{Rates: rates, Differentials: diffs})
}

func (s *apiServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		filter.Status = model.RunStatus(v)
	}
	if v := q.Get("preset"); v != "" {
		filter.Preset = v
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *apiServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// statusForError maps engine failures to HTTP statuses: bad input is the
// caller's fault, infeasible simulations are semantically unprocessable,
// anything else is a server error.
func statusForError(err error) int {
	switch {
	case eris.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case eris.Is(err, engine.ErrPrepaymentInfeasible),
		eris.Is(err, engine.ErrPayoffNotConverged):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
