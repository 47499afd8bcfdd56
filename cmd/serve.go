package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/dataset"
	"github.com/bh-assurance/agent-cli/internal/gaps"
	"github.com/bh-assurance/agent-cli/internal/model"
	"github.com/bh-assurance/agent-cli/internal/pitch"
	"github.com/bh-assurance/agent-cli/internal/profile"
	"github.com/bh-assurance/agent-cli/internal/store"
	"github.com/bh-assurance/agent-cli/internal/workflow"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Serves workflow execution, session history, customer search, and feedback collection over HTTP for the agent front-end.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initWorkflow(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newAPIRouter(env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
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

// sessionEntry is one customer's live session plus the lock that
// serializes access to it. Sessions are not safe for concurrent use.
type sessionEntry struct {
	mu      sync.Mutex
	session *workflow.Session
}

// sessionRegistry keeps one live session per customer so the state,
// reset, and feedback endpoints can address the run the execute
// endpoint started.
type sessionRegistry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{entries: make(map[string]*sessionEntry)}
}

func (sr *sessionRegistry) get(customerID string) (*sessionEntry, bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	e, ok := sr.entries[customerID]
	return e, ok
}

func (sr *sessionRegistry) getOrCreate(customerID string, create func() *workflow.Session) *sessionEntry {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	e, ok := sr.entries[customerID]
	if !ok {
		e = &sessionEntry{session: create()}
		sr.entries[customerID] = e
	}
	return e
}

// newAPIRouter builds the HTTP API over the given environment.
func newAPIRouter(env *workflowEnv) http.Handler {
	registry := newSessionRegistry()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/workflow/{customerID}/execute", func(w http.ResponseWriter, r *http.Request) {
		customerID := chi.URLParam(r, "customerID")

		entry := registry.getOrCreate(customerID, env.NewSession)
		entry.mu.Lock()
		defer entry.mu.Unlock()

		state, runErr := entry.session.Execute(r.Context(), customerID)

		rec, err := env.Store.SaveSession(r.Context(), state, entry.session.History())
		if err != nil {
			zap.L().Error("save session failed",
				zap.String("customer_id", customerID),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save session")
			return
		}

		status := http.StatusOK
		if runErr != nil {
			// The run is terminal with the error recorded on the state.
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]any{
			"session_id": rec.ID,
			"state":      state,
			"progress":   entry.session.Progress(),
			"summary":    entry.session.Summary(),
		})
	})

	r.Get("/api/workflow/{customerID}", func(w http.ResponseWriter, r *http.Request) {
		customerID := chi.URLParam(r, "customerID")

		entry, ok := registry.get(customerID)
		if !ok {
			writeError(w, http.StatusNotFound, "no workflow for customer")
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()

		state, ok := entry.session.Current()
		if !ok {
			writeError(w, http.StatusNotFound, "no workflow for customer")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"state":    state,
			"progress": entry.session.Progress(),
			"summary":  entry.session.Summary(),
		})
	})

	r.Post("/api/workflow/{customerID}/reset", func(w http.ResponseWriter, r *http.Request) {
		customerID := chi.URLParam(r, "customerID")

		entry, ok := registry.get(customerID)
		if !ok {
			writeError(w, http.StatusNotFound, "no workflow for customer")
			return
		}
		entry.mu.Lock()
		entry.session.Reset()
		entry.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	r.Post("/api/workflow/{customerID}/feedback", func(w http.ResponseWriter, r *http.Request) {
		customerID := chi.URLParam(r, "customerID")

		var req struct {
			AgentNotes             string                 `json:"agent_notes"`
			CustomerResponse       model.CustomerResponse `json:"customer_response"`
			ImprovementSuggestions string                 `json:"improvement_suggestions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		entry, ok := registry.get(customerID)
		if !ok {
			writeError(w, http.StatusNotFound, "no workflow for customer")
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()

		// Feedback goes through the session so the step advances and
		// the record picks up the delivered pitch id.
		fb, err := entry.session.SubmitFeedback(r.Context(), workflow.FeedbackInput{
			AgentNotes:             req.AgentNotes,
			CustomerResponse:       req.CustomerResponse,
			ImprovementSuggestions: req.ImprovementSuggestions,
		})
		if err != nil {
			switch {
			case eris.Is(err, workflow.ErrInvalidResponse):
				writeError(w, http.StatusBadRequest, "invalid customer_response")
			case eris.Is(err, workflow.ErrNoSession):
				writeError(w, http.StatusNotFound, "no workflow for customer")
			default:
				zap.L().Error("save feedback failed",
					zap.String("customer_id", customerID),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to save feedback")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "feedback": fb})
	})

	r.Post("/api/pitch", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CustomerID string `json:"customer_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CustomerID == "" {
			writeError(w, http.StatusBadRequest, "customer_id is required")
			return
		}

		p, err := composePitch(r.Context(), env, req.CustomerID)
		if err != nil {
			if eris.Is(err, dataset.ErrNotFound) {
				writeError(w, http.StatusNotFound, "customer not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to compose pitch")
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	r.Get("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		records, err := env.Store.ListSessions(r.Context(), store.SessionFilter{
			CustomerID: r.URL.Query().Get("customer_id"),
			Limit:      queryInt(r, "limit"),
			Offset:     queryInt(r, "offset"),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list sessions")
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	r.Get("/api/sessions/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := env.Store.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			if eris.Is(err, store.ErrSessionNotFound) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load session")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	r.Get("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		customers := env.Records.Search(dataset.Criteria{
			Profession: r.URL.Query().Get("profession"),
			Sector:     r.URL.Query().Get("sector"),
			Location:   r.URL.Query().Get("location"),
			AgeMin:     queryInt(r, "age_min"),
			AgeMax:     queryInt(r, "age_max"),
		})
		if limit := queryInt(r, "limit"); limit > 0 && len(customers) > limit {
			customers = customers[:limit]
		}
		if customers == nil {
			customers = []model.Customer{}
		}
		writeJSON(w, http.StatusOK, customers)
	})

	r.Post("/api/feedback", func(w http.ResponseWriter, r *http.Request) {
		var fb model.AgentFeedback
		if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fb.CustomerID == "" {
			writeError(w, http.StatusBadRequest, "customer_id is required")
			return
		}
		if !model.ValidCustomerResponse(fb.CustomerResponse) {
			writeError(w, http.StatusBadRequest, "invalid customer_response")
			return
		}
		if fb.FeedbackID == "" {
			fb.FeedbackID = uuid.NewString()
		}
		if fb.Timestamp.IsZero() {
			fb.Timestamp = time.Now().UTC()
		}

		if err := env.Store.SaveFeedback(r.Context(), fb); err != nil {
			zap.L().Error("save feedback failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save feedback")
			return
		}

		count, err := env.Store.CountFeedback(r.Context())
		if err != nil {
			count = -1
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Feedback saved successfully",
			"count":   count,
		})
	})

	r.Get("/api/feedback", func(w http.ResponseWriter, r *http.Request) {
		fbs, err := env.Store.ListFeedback(r.Context(), store.FeedbackFilter{
			CustomerID: r.URL.Query().Get("customer_id"),
			Response:   model.CustomerResponse(r.URL.Query().Get("response")),
			Limit:      queryInt(r, "limit"),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read feedback")
			return
		}
		if fbs == nil {
			fbs = []model.AgentFeedback{}
		}
		writeJSON(w, http.StatusOK, fbs)
	})

	return r
}

// composePitch runs the analysis stages directly, outside a persisted
// workflow, and returns just the commercial pitch.
func composePitch(ctx context.Context, env *workflowEnv, customerID string) (model.CommercialPitch, error) {
	customer, err := env.Records.CustomerByID(customerID)
	if err != nil {
		return model.CommercialPitch{}, err
	}
	contracts := env.Records.ContractsByCustomer(customer.ID)
	claims := env.Records.ClaimsByCustomer(customer.ID)

	cp := model.CustomerProfile{
		Customer:    customer,
		Contracts:   contracts,
		Guarantees:  env.Records.GuaranteesByCustomer(customer.ID),
		Claims:      claims,
		RiskProfile: profile.Build(customer, contracts, claims, time.Now()),
	}
	cp.EquipmentGaps = gaps.Detect(customer, contracts)

	recs := env.Engine.Generate(ctx, cp.RiskProfile, contracts)
	return pitch.Compose(cp, recs), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
