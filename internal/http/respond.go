package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ahmedmegahedd/modera-nado/internal/repository"
	"github.com/ahmedmegahedd/modera-nado/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleServiceError maps order core errors to HTTP status codes
func handleServiceError(w http.ResponseWriter, err error) {
	var notFound *service.ProductNotFoundError
	var insufficient *service.InsufficientStockError
	var invalidTransition *service.InvalidTransitionError

	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "empty_order", err.Error())
	case errors.As(err, &notFound):
		respondError(w, http.StatusBadRequest, "product_not_found", err.Error())
	case errors.As(err, &insufficient):
		respondError(w, http.StatusBadRequest, "insufficient_stock", err.Error())
	case errors.As(err, &invalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
