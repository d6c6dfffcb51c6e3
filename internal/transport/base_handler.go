package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/backofficehq/admin-backend/internal"
	"github.com/backofficehq/admin-backend/pkg/logger"
)

// SuccessEnvelope is the uniform success wire shape. Data is always present,
// even when null, so API consumers can branch on success alone.
type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorEnvelope is the uniform failure wire shape. Errors carries per-field
// validation messages and is omitted otherwise.
type ErrorEnvelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode int                 `json:"error_code"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

func (h *BaseHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess writes the success envelope with the given HTTP status.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.writeJSON(w, status, SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError writes the error envelope. error_code mirrors the HTTP status.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.writeJSON(w, status, ErrorEnvelope{
		Success:   false,
		Message:   message,
		ErrorCode: status,
	})
}

// HandleServiceError maps a service error onto the envelope. Validation
// errors surface per-field messages; not-found and auth errors keep their
// own message; anything else collapses to the operation's generic message
// with a 500, after logging the underlying cause.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error, genericMessage string) {
	if appErr, ok := internal.IsAppError(err); ok {
		switch appErr.Type {
		case internal.ErrorTypeValidation:
			h.writeJSON(w, appErr.StatusCode, ErrorEnvelope{
				Success:   false,
				Message:   appErr.GetDetailedMessage(),
				ErrorCode: appErr.StatusCode,
				Errors:    appErr.FieldErrors(),
			})
			return
		case internal.ErrorTypeNotFound, internal.ErrorTypeUnauthorized, internal.ErrorTypeForbidden, internal.ErrorTypeConflict:
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, genericMessage)
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
