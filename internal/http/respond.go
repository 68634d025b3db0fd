package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
)

// paginated wraps a page of rows with its pagination metadata.
type paginated struct {
	Data       any            `json:"data"`
	Pagination paginationMeta `json:"pagination"`
}

type paginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func paginatedResponse(data any, total, page, limit int) paginated {
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return paginated{
		Data: data,
		Pagination: paginationMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// paginationParams clamps page and limit before they reach the core:
// page >= 1, 1 <= limit <= 100, default limit 20.
func paginationParams(r *http.Request) (page, limit int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 1 {
		page = v
	}
	limit = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		if v < 1 {
			v = 1
		}
		if v > 100 {
			v = 100
		}
		limit = v
	}
	return page, limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps the error taxonomy to HTTP status codes. The four expected
// kinds pass their message through; Internal is logged and surfaced
// generically.
func writeError(w http.ResponseWriter, err error) {
	var e *apperr.Error
	status := http.StatusInternalServerError
	message := "internal error"

	if errors.As(err, &e) {
		switch e.Kind {
		case apperr.KindUnauthorized:
			status = http.StatusUnauthorized
			message = e.Message
		case apperr.KindForbidden:
			status = http.StatusForbidden
			message = e.Message
		case apperr.KindNotFound:
			status = http.StatusNotFound
			message = e.Message
		case apperr.KindInvalidArgument:
			status = http.StatusBadRequest
			message = e.Message
		}
	}
	if status == http.StatusInternalServerError {
		log.Error("Unexpected error", "error", err)
	}
	writeErrorMessage(w, status, message)
}
