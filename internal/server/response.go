package server

import (
	"encoding/json"
	"net/http"

	"github.com/emotiquest/emotiquest/internal/validation"
)

type apiError struct {
	Message string                  `json:"message"`
	Code    string                  `json:"code,omitempty"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	respondJSON(w, status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

// respondValidation reports field errors with 400.
func respondValidation(w http.ResponseWriter, verr *validation.Error) {
	respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: apiError{
		Message: verr.Error(),
		Code:    "validation",
		Fields:  verr.Fields,
	}})
}
