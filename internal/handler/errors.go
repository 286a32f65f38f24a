package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON envelope returned for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human-readable
// message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes the error envelope with the given status.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck — nothing sensible to do if the client is gone.
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// messageAfter extracts the human-readable part following the sentinel in a
// wrapped error chain, e.g.
// "service.ExportService.Export: validation error: columns map is required"
// becomes "columns map is required". Falls back to the full message.
func messageAfter(err error, sentinel string) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel+": "); i >= 0 {
		return msg[i+len(sentinel)+2:]
	}
	return msg
}
