// Package handlers provides HTTP request handlers for the REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/myones/formulary/internal/domain/formula"
	"github.com/myones/formulary/internal/ports/inbound"
	"github.com/myones/formulary/internal/ports/outbound"
	apperrors "github.com/myones/formulary/pkg/errors"
)

// APIHandlers provides the REST surface over the consultation engine.
type APIHandlers struct {
	consultations inbound.ConsultationService
	validator     inbound.FormulaValidator
	repo          outbound.FormulaRepository
	ai            outbound.AIService
	logger        *zap.Logger
}

// NewAPIHandlers creates new API handlers.
func NewAPIHandlers(
	consultations inbound.ConsultationService,
	validator inbound.FormulaValidator,
	repo outbound.FormulaRepository,
	ai outbound.AIService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		consultations: consultations,
		validator:     validator,
		repo:          repo,
		ai:            ai,
		logger:        logger.Named("api"),
	}
}

// ConsultationMessageRequest is one user turn of a consultation.
type ConsultationMessageRequest struct {
	UserID      string   `json:"user_id"`
	Message     string   `json:"message"`
	Medications []string `json:"medications,omitempty"`
	// History carries the prior turns of the conversation so the AI
	// provider sees full context. The engine itself stays stateless.
	History []ChatMessage `json:"history,omitempty"`
}

// ChatMessage mirrors one prior conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConsultationMessageResponse carries the assistant reply plus the
// engine's verdict on any formula the reply proposed.
type ConsultationMessageResponse struct {
	Reply      string       `json:"reply"`
	Status     string       `json:"status"`
	Formula    *FormulaView `json:"formula,omitempty"`
	Advisories []string     `json:"advisories,omitempty"`
	Errors     []string     `json:"errors,omitempty"`
}

// FormulaView is the wire shape of a formula.
type FormulaView struct {
	Bases          []LineView `json:"bases"`
	Additions      []LineView `json:"additions"`
	TotalMg        float64    `json:"total_mg"`
	TargetCapsules int        `json:"target_capsules"`
}

// LineView is the wire shape of one formula line.
type LineView struct {
	Name     string  `json:"name"`
	AmountMg float64 `json:"amount_mg"`
}

// ValidateFormulaRequest is a structured candidate formula.
type ValidateFormulaRequest struct {
	Bases          []LineView `json:"bases"`
	Additions      []LineView `json:"additions"`
	TargetCapsules int        `json:"target_capsules"`
}

// ValidateFormulaResponse reports every violated rule of one pass.
type ValidateFormulaResponse struct {
	Valid   bool     `json:"valid"`
	TotalMg float64  `json:"total_mg"`
	Errors  []string `json:"errors,omitempty"`
}

// FormulaRecordView is the wire shape of a persisted formula version.
type FormulaRecordView struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Version        int        `json:"version"`
	Bases          []LineView `json:"bases"`
	Additions      []LineView `json:"additions"`
	TotalMg        float64    `json:"total_mg"`
	TargetCapsules int        `json:"target_capsules"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// HandleConsultationMessage runs one conversation turn: it forwards the
// user's message to the AI provider and feeds the reply through the
// extraction pipeline.
func (h *APIHandlers) HandleConsultationMessage(w http.ResponseWriter, r *http.Request) {
	var req ConsultationMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondAppError(w, r, apperrors.NewBadRequestError("Invalid request body"))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.respondAppError(w, r, apperrors.NewBadRequestError("user_id must be a valid UUID"))
		return
	}
	if req.Message == "" {
		h.respondAppError(w, r, apperrors.NewBadRequestError("message is required"))
		return
	}

	messages := make([]outbound.ChatMessage, 0, len(req.History)+1)
	for _, m := range req.History {
		messages = append(messages, outbound.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, outbound.ChatMessage{Role: "user", Content: req.Message})

	reply, err := h.ai.Converse(r.Context(), messages)
	if err != nil {
		h.logger.Error("AI provider request failed", zap.Error(err))
		h.respondAppError(w, r, apperrors.NewAppError(
			apperrors.CodeAIProviderUnavailable,
			"The consultation assistant is unavailable",
			"",
		).WithCause(err))
		return
	}

	outcome, err := h.consultations.ProcessTurn(r.Context(), inbound.TurnInput{
		UserID:      userID,
		UserMessage: req.Message,
		AIText:      reply,
		Medications: req.Medications,
	})
	if err != nil {
		h.logger.Error("Turn processing failed", zap.Error(err))
		h.respondAppError(w, r, apperrors.Wrap(err, "Failed to process consultation turn"))
		return
	}

	resp := ConsultationMessageResponse{
		Reply:      reply,
		Status:     string(outcome.Status),
		Advisories: outcome.Advisories,
		Errors:     outcome.Errors,
	}
	if outcome.Formula != nil {
		resp.Formula = toFormulaView(outcome.Formula)
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// HandleValidateFormula validates a structured candidate formula without
// touching the conversation flow or persistence.
func (h *APIHandlers) HandleValidateFormula(w http.ResponseWriter, r *http.Request) {
	var req ValidateFormulaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondAppError(w, r, apperrors.NewBadRequestError("Invalid request body"))
		return
	}

	f := &formula.Formula{
		Bases:          toLines(req.Bases, formula.RoleBase),
		Additions:      toLines(req.Additions, formula.RoleAddition),
		TargetCapsules: req.TargetCapsules,
	}
	if f.IngredientCount() == 0 {
		h.respondAppError(w, r, apperrors.NewBadRequestError("formula has no ingredient lines"))
		return
	}
	f.RecomputeTotal()

	result := h.validator.Validate(f)

	h.respondJSON(w, http.StatusOK, ValidateFormulaResponse{
		Valid:   result.Valid,
		TotalMg: f.TotalMg,
		Errors:  result.Errors,
	})
}

// HandleCurrentFormula returns the user's latest accepted formula version.
func (h *APIHandlers) HandleCurrentFormula(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDFromQuery(w, r)
	if !ok {
		return
	}

	record, err := h.repo.Current(r.Context(), userID)
	if err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			h.respondAppError(w, r, apperrors.NewFormulaNotFoundError(userID.String()))
			return
		}
		h.logger.Error("Failed to load current formula", zap.Error(err))
		h.respondAppError(w, r, apperrors.NewDatabaseError("load current formula", err))
		return
	}

	h.respondJSON(w, http.StatusOK, toRecordView(record))
}

// HandleFormulaHistory returns every accepted version for a user, newest
// first.
func (h *APIHandlers) HandleFormulaHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDFromQuery(w, r)
	if !ok {
		return
	}

	records, err := h.repo.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load formula history", zap.Error(err))
		h.respondAppError(w, r, apperrors.NewDatabaseError("load formula history", err))
		return
	}

	views := make([]*FormulaRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, toRecordView(record))
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"versions": views})
}

func (h *APIHandlers) userIDFromQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		h.respondAppError(w, r, apperrors.NewBadRequestError("user_id query parameter is required"))
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		h.respondAppError(w, r, apperrors.NewBadRequestError("user_id must be a valid UUID"))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *APIHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *APIHandlers) respondAppError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	requestID := chimiddleware.GetReqID(r.Context())
	h.respondJSON(w, appErr.StatusCode(), apperrors.ToErrorResponse(appErr, requestID))
}

func toLines(views []LineView, role formula.Role) []formula.Line {
	lines := make([]formula.Line, 0, len(views))
	for _, v := range views {
		lines = append(lines, formula.Line{IngredientName: v.Name, AmountMg: v.AmountMg, Role: role})
	}
	return lines
}

func toLineViews(lines []formula.Line) []LineView {
	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, LineView{Name: l.IngredientName, AmountMg: l.AmountMg})
	}
	return views
}

func toFormulaView(f *formula.Formula) *FormulaView {
	return &FormulaView{
		Bases:          toLineViews(f.Bases),
		Additions:      toLineViews(f.Additions),
		TotalMg:        f.TotalMg,
		TargetCapsules: f.TargetCapsules,
	}
}

func toRecordView(record *outbound.FormulaRecord) *FormulaRecordView {
	return &FormulaRecordView{
		ID:             record.ID.String(),
		UserID:         record.UserID.String(),
		Version:        record.Version,
		Bases:          toLineViews(record.Bases),
		Additions:      toLineViews(record.Additions),
		TotalMg:        record.TotalMg,
		TargetCapsules: record.TargetCapsules,
		Notes:          record.Notes,
		CreatedAt:      record.CreatedAt,
	}
}
