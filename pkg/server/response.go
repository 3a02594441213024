package server

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the envelope of every JSON endpoint.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}

func writeData(w http.ResponseWriter, v any) error {
	return writeJSON(w, http.StatusOK, JSONResponse{Data: v})
}

func writeError(w http.ResponseWriter, status int, code string, err error) error {
	return writeJSON(w, status, JSONResponse{Error: &ErrorDetail{Code: code, Message: err.Error()}})
}
