package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
	"github.com/heartmarshall/grimoire-backend/internal/service/spellref"
)

// maxBodyBytes bounds a hydration request body.
const maxBodyBytes = 1 << 16

type hydrator interface {
	Run(ctx context.Context, in spellref.HydrateInput) (*spellref.HydrateResult, error)
	Missing(ctx context.Context, order domain.RetryOrder, limit int) ([]domain.MissingEntry, error)
}

// SpellRefHandler serves the spell reference hydration endpoint.
type SpellRefHandler struct {
	svc hydrator
	log *slog.Logger
}

// NewSpellRefHandler creates a SpellRefHandler.
func NewSpellRefHandler(svc hydrator, logger *slog.Logger) *SpellRefHandler {
	return &SpellRefHandler{svc: svc, log: logger.With("handler", "spellref")}
}

type hydrateRequest struct {
	Name             string `json:"name"`
	SpellClass       string `json:"spellClass"`
	Limit            *int   `json:"limit"`
	RetryMissing     bool   `json:"retryMissing"`
	RetryOnlyMissing bool   `json:"retryOnlyMissing"`
	RetryOrder       string `json:"retryOrder"`
	Force            bool   `json:"force"`
}

type hydrateResponse struct {
	Processed []spellref.Result `json:"processed"`
	Missing   []missingResponse `json:"missing"`
}

type missingListResponse struct {
	Missing []missingResponse `json:"missing"`
}

type missingResponse struct {
	NormalizedName  string    `json:"normalizedName"`
	Name            string    `json:"name"`
	SpellClass      string    `json:"spellClass"`
	ReferenceSource string    `json:"referenceSource,omitempty"`
	Reason          string    `json:"reason"`
	LastURL         string    `json:"lastUrl,omitempty"`
	AttemptCount    int       `json:"attemptCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Hydrate handles POST /api/spell-reference-hydrate.
func (h *SpellRefHandler) Hydrate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeHydrateRequest(r)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	res, err := h.svc.Run(r.Context(), in)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	processed := res.Processed
	if processed == nil {
		processed = []spellref.Result{}
	}
	writeJSON(w, http.StatusOK, hydrateResponse{
		Processed: processed,
		Missing:   toMissingResponses(res.Missing),
	})
}

// Missing handles GET /api/spell-reference-hydrate: the ledger, newest first.
func (h *SpellRefHandler) Missing(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Missing(r.Context(), domain.RetryOrderNewest, spellref.LedgerPageSize)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, missingListResponse{Missing: toMissingResponses(entries)})
}

// decodeHydrateRequest parses the body strictly: unknown fields, trailing
// data and negative limits are rejected. An empty body means defaults.
func decodeHydrateRequest(r *http.Request) (spellref.HydrateInput, error) {
	var req hydrateRequest

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return spellref.HydrateInput{}, domain.NewValidationError("body", describeDecodeError(err))
	}
	if dec.More() {
		return spellref.HydrateInput{}, domain.NewValidationError("body", "unexpected data after JSON object")
	}

	in := spellref.HydrateInput{
		Name:             req.Name,
		SpellClass:       req.SpellClass,
		RetryMissing:     req.RetryMissing,
		RetryOnlyMissing: req.RetryOnlyMissing,
		RetryOrder:       domain.RetryOrder(req.RetryOrder),
		Force:            req.Force,
	}
	if req.Limit != nil {
		if *req.Limit < 1 {
			return spellref.HydrateInput{}, domain.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", spellref.MaxLimit))
		}
		in.Limit = *req.Limit
	}
	return in, nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type.String())
	}
	return err.Error()
}

func toMissingResponses(entries []domain.MissingEntry) []missingResponse {
	out := make([]missingResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, missingResponse{
			NormalizedName:  e.NormalizedName,
			Name:            e.DisplayName,
			SpellClass:      string(e.Class),
			ReferenceSource: e.ReferenceSource,
			Reason:          e.Reason,
			LastURL:         e.LastURL,
			AttemptCount:    e.AttemptCount,
			CreatedAt:       e.CreatedAt,
			UpdatedAt:       e.UpdatedAt,
		})
	}
	return out
}

func handleError(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
