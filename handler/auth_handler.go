package handler

import (
	"encoding/json"
	"errors"
	"go-project-api/common"
	"go-project-api/model"
	"go-project-api/service"
	"net/http"
)

const refreshTokenCookie = "refresh_token"

// AuthHandler adapts the session-manager flows to HTTP. The environment
// string decides whether the refresh-token cookie is marked Secure.
type AuthHandler struct {
	authService service.IAuthService
	environment string
}

func NewAuthHandler(authService service.IAuthService, environment string) *AuthHandler {
	return &AuthHandler{authService: authService, environment: environment}
}

// RegisterCompany godoc
// @Summary      Register a company with its admin user
// @Description  Creates a tenant with a generated join code and its first admin user, and opens a session for the admin.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registration body model.RegisterCompanyRequest true "Company and admin details"
// @Success      201  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError
// @Failure      500  {object}  common.AppError "Role seed data missing or internal error"
// @Router       /api/auth/register/company [post]
func (h *AuthHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterCompanyRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	resp, err := h.authService.RegisterCompany(r.Context(), req)
	if err != nil {
		return h.mapAuthError(err)
	}

	h.setRefreshTokenCookie(w, resp.RefreshToken)
	writeJSON(w, http.StatusCreated, resp)
	return nil
}

// Register godoc
// @Summary      Register a user
// @Description  Creates a user, optionally enrolling it into a company via the company's join code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registration body model.RegisterRequest true "User details with optional join code"
// @Success      200  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError "Duplicate email/username or invalid join code"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	resp, err := h.authService.RegisterUser(r.Context(), req)
	if err != nil {
		return h.mapAuthError(err)
	}

	h.setRefreshTokenCookie(w, resp.RefreshToken)
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// Login godoc
// @Summary      Log in with email and password
// @Description  Verifies credentials and issues an access token plus a rotated refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Email and password"
// @Success      200  {object}  model.AuthResponse
// @Failure      401  {object}  common.AppError "Invalid email or password"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		return h.mapAuthError(err)
	}

	h.setRefreshTokenCookie(w, resp.RefreshToken)
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Description  Reads the refresh token from the cookie or the body and rotates both tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token body model.RefreshTokenRequest false "Refresh token, when not using the cookie"
// @Success      200  {object}  model.AuthResponse
// @Failure      401  {object}  common.AppError "Unknown or expired refresh token"
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	rawToken := h.refreshTokenFromRequest(r)
	if rawToken == "" {
		return common.NewAppError(http.StatusUnauthorized, "Refresh token is required", nil)
	}

	resp, err := h.authService.Refresh(r.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken), errors.Is(err, service.ErrRefreshTokenExpired):
			h.expireRefreshTokenCookie(w)
			return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
		}
	}

	h.setRefreshTokenCookie(w, resp.RefreshToken)
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes all refresh tokens of the token's owner. An unknown token is reported as an error.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token body model.RefreshTokenRequest false "Refresh token, when not using the cookie"
// @Success      200  {object}  model.MessageResponse
// @Failure      400  {object}  common.AppError
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	rawToken := h.refreshTokenFromRequest(r)
	if rawToken == "" {
		return common.NewAppError(http.StatusBadRequest, "Refresh token is required", nil)
	}

	if err := h.authService.Logout(rawToken); err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	h.expireRefreshTokenCookie(w)
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Logged out successfully"})
	return nil
}

// ChangePassword godoc
// @Summary      Change the authenticated user's password
// @Description  Verifies the old password before storing the new one. Existing sessions stay valid.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        passwords body model.ChangePasswordRequest true "Old and new password"
// @Success      200  {object}  model.MessageResponse
// @Failure      400  {object}  common.AppError "Invalid old password"
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	email, ok := r.Context().Value(UserEmailKey).(string)
	if !ok || email == "" {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user identity in token", nil)
	}

	var req model.ChangePasswordRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	changed, err := h.authService.ChangePassword(email, req.OldPassword, req.NewPassword)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not change password", err)
	}
	if !changed {
		return common.NewAppError(http.StatusBadRequest, "Invalid old password", nil)
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Password changed successfully"})
	return nil
}

func (h *AuthHandler) mapAuthError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrInvalidJoinCode):
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrRoleNotConfigured):
		// Missing seed data is a deployment bug, not a client mistake.
		return common.NewAppError(http.StatusInternalServerError, "Server is misconfigured", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Could not process request", err)
	}
}

// refreshTokenFromRequest prefers the HttpOnly cookie and falls back to the
// JSON body for clients that do not use cookies.
func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req model.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	secure := h.environment != "local"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   30 * 24 * 60 * 60,
	})
}

func (h *AuthHandler) expireRefreshTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, MaxAge: -1, Path: "/api/auth", HttpOnly: true})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
