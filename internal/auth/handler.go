package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/backofficehq/admin-backend/internal"
	"github.com/backofficehq/admin-backend/internal/transport"
	"github.com/backofficehq/admin-backend/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	Register(dto RegisterDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err, "Ocurrió un error al iniciar sesión")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Inicio de sesión exitoso", tokens)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	tokens, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Error("registration failed", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err, "Ocurrió un error al registrar el usuario")
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Usuario registrado correctamente", tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err, "Ocurrió un error al refrescar el token")
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)

		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired) {
			h.WriteError(w, http.StatusUnauthorized, "Token de refresco inválido")
			return
		}
		h.HandleServiceError(w, err, "Ocurrió un error al refrescar el token")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token actualizado correctamente", tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "Falta el token de autorización")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, internal.ErrInvalidToken.Message)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Sesión cerrada correctamente", nil)
}

// Me returns the resolved caller (with permission names) from the context.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "No autenticado")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Usuario obtenido correctamente", map[string]interface{}{
		"user": user,
	})
}

// AuthMiddleware validates the bearer token and injects the caller, with
// permissions, into the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "Falta el token de autorización")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, internal.ErrInvalidToken.Message)
			return
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			h.Logger.Warn("failed to parse user id from token claims", "value", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, internal.ErrInvalidToken.Message)
			return
		}

		user, err := h.Service.GetUserWithPermissions(userID)
		if err != nil {
			h.Logger.Error("auth middleware: failed to load user", "user_id", userID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, internal.ErrUserNotFound.Message)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}
