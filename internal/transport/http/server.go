package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	logger "log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/vietddude/screener/internal/core/domain"
)

// Evaluator runs the screening pipeline for one address.
type Evaluator interface {
	Evaluate(ctx context.Context, address string) domain.Outcome
}

// Server exposes the screening endpoint plus health and metrics.
type Server struct {
	evaluator Evaluator
	server    *http.Server
	log       *logger.Logger
}

// NewServer creates the HTTP server.
func NewServer(evaluator Evaluator, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		evaluator: evaluator,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      60 * time.Second,
		},
		log: logger.Default().With("component", "http"),
	}

	mux.HandleFunc("GET /v1/addresses/{address}/screening", s.handleScreening)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// envelope is the response body for every screening outcome.
type envelope struct {
	Evaluation *evaluationPayload        `json:"evaluation"`
	Evidence   []domain.SanctionsListing `json:"evidence,omitempty"`
	Error      *string                   `json:"error"`
	Message    *string                   `json:"message"`
}

type evaluationPayload struct {
	Score            float64         `json:"score"`
	Transactions     int64           `json:"transactions"`
	Blacklist        bool            `json:"blacklist"`
	Balance          decimal.Decimal `json:"balance"`
	FirstTransaction *string         `json:"first_transaction"`
	LastTransaction  *string         `json:"last_transaction"`
	Tag              string          `json:"tag"`
}

func (s *Server) handleScreening(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	outcome := s.evaluator.Evaluate(r.Context(), address)

	switch outcome.Kind {
	case domain.OutcomeSuccess:
		writeJSON(w, http.StatusOK, envelope{Evaluation: payload(outcome.Result)})

	case domain.OutcomeEmptyHistory:
		writeJSON(w, http.StatusOK, envelope{
			Evaluation: payload(outcome.Result),
			Message:    ptr("new wallet, no transactions"),
		})

	case domain.OutcomeInvalidAddress:
		writeJSON(w, http.StatusNotFound, envelope{
			Message: ptr("address does not exist or was not found on the network"),
		})

	case domain.OutcomeInsufficientHistory:
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Message: ptr("fewer than the required number of transactions registered on this address"),
		})

	case domain.OutcomeSanctioned:
		writeJSON(w, http.StatusUnavailableForLegalReasons, envelope{
			Evidence: outcome.Evidence,
			Message:  ptr("this address is on a sanctions list"),
		})

	default:
		s.log.Error("evaluation failed", "address", address, "reason", outcome.Reason)
		writeJSON(w, http.StatusBadGateway, envelope{
			Error:   ptr("upstream failure"),
			Message: ptr("could not fetch data, try again later"),
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func payload(r *domain.EvaluationResult) *evaluationPayload {
	p := &evaluationPayload{
		Score:        r.Score,
		Transactions: r.TransactionCount,
		Blacklist:    r.Blacklisted,
		Balance:      r.Balance,
		Tag:          r.ReputationTag,
	}
	if !r.FirstTransaction.IsZero() {
		p.FirstTransaction = ptr(r.FirstTransaction.Format(time.DateTime))
	}
	if !r.LastTransaction.IsZero() {
		p.LastTransaction = ptr(r.LastTransaction.Format(time.DateTime))
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func ptr(s string) *string {
	return &s
}
