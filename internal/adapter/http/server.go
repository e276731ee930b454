package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/splitledger/backend/internal/domain"
	"github.com/splitledger/backend/internal/usecase/balance"
	"github.com/splitledger/backend/internal/usecase/transaction"
)

// Server exposes the ledger over HTTP/JSON
type Server struct {
	Transactions *transaction.Service
	Balance      *balance.Service
	Logger       *zap.Logger

	// Readiness reports whether the backing stores are reachable.
	// Optional; /healthz returns ok when unset.
	Readiness func(ctx context.Context) error
}

// NewServer creates a new HTTP server instance
func NewServer(
	transactions *transaction.Service,
	bal *balance.Service,
	logger *zap.Logger,
	readiness func(ctx context.Context) error,
) *Server {
	return &Server{
		Transactions: transactions,
		Balance:      bal,
		Logger:       logger,
		Readiness:    readiness,
	}
}

// Router builds the chi router with auth and request logging on the API
// routes. The health endpoint stays unauthenticated.
func (s *Server) Router(apiToken string) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequestLogger(s.Logger))
		r.Use(Auth(apiToken))
		r.Post("/transactions", s.handleCreateTransaction)
		r.Get("/users/{userID}/balance", s.handleGetBalance)
	})

	return r
}

type participantRequest struct {
	UserID string `json:"user_id"`
	Share  int64  `json:"share"`
}

type createTransactionRequest struct {
	TransactionID string               `json:"transaction_id"`
	TotalAmount   int64                `json:"total_amount"`
	Senders       []participantRequest `json:"senders"`
	Receivers     []participantRequest `json:"receivers"`
}

type participantResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	Share       int64     `json:"share"`
	ShareAmount int64     `json:"share_amount"`
}

type transactionResponse struct {
	ID           uuid.UUID             `json:"id"`
	ExternalID   string                `json:"external_id"`
	TotalAmount  int64                 `json:"total_amount"`
	CreatedAt    time.Time             `json:"created_at"`
	Participants []participantResponse `json:"participants"`
}

type balanceResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance int64     `json:"balance"`
}

type errorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, domain.NewInvalidInput("request body is not valid JSON"))
		return
	}

	input, err := req.toInput()
	if err != nil {
		s.writeError(w, err)
		return
	}

	tx, err := s.Transactions.Create(r.Context(), input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, domain.NewInvalidUUID("user_id"))
		return
	}

	bal, err := s.Balance.Get(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: bal})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Readiness != nil {
		if err := s.Readiness(r.Context()); err != nil {
			s.Logger.Error("readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Message:   "service unavailable",
				ErrorCode: "ServiceUnavailableError",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (req createTransactionRequest) toInput() (transaction.CreateInput, error) {
	senders, err := toParticipants(req.Senders, "senders")
	if err != nil {
		return transaction.CreateInput{}, err
	}

	receivers, err := toParticipants(req.Receivers, "receivers")
	if err != nil {
		return transaction.CreateInput{}, err
	}

	return transaction.CreateInput{
		ExternalID:  req.TransactionID,
		TotalAmount: req.TotalAmount,
		Senders:     senders,
		Receivers:   receivers,
	}, nil
}

func toParticipants(reqs []participantRequest, field string) ([]transaction.ParticipantInput, error) {
	out := make([]transaction.ParticipantInput, 0, len(reqs))
	for _, p := range reqs {
		userID, err := uuid.Parse(p.UserID)
		if err != nil {
			return nil, domain.NewInvalidUUID(field + ".user_id")
		}
		out = append(out, transaction.ParticipantInput{UserID: userID, Share: p.Share})
	}

	return out, nil
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	participants := make([]participantResponse, 0, len(tx.Participants))
	for _, p := range tx.Participants {
		participants = append(participants, participantResponse{
			ID:          p.ID,
			UserID:      p.UserID,
			Role:        string(p.Role),
			Share:       p.Share,
			ShareAmount: p.ShareAmount,
		})
	}

	return transactionResponse{
		ID:           tx.ID,
		ExternalID:   tx.ExternalID,
		TotalAmount:  tx.TotalAmount,
		CreatedAt:    tx.CreatedAt,
		Participants: participants,
	}
}

// writeError maps a domain error to its response class and stable code.
// Anything else is logged with full context and surfaced as an opaque
// internal error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		writeJSON(w, statusForKind(domainErr.Kind), errorResponse{
			Message:   domainErr.Message,
			ErrorCode: domainErr.Code,
		})
		return
	}

	s.Logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message:   "Something went wrong",
		ErrorCode: "InternalServerError",
	})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
