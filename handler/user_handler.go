package handler

import (
	"errors"
	"go-project-api/common"
	"go-project-api/model"
	"go-project-api/service"
	"net/http"
	"strconv"
)

// UserHandler serves the admin-facing user directory endpoints.
type UserHandler struct {
	userService service.IUserService
	authService service.IAuthService
}

func NewUserHandler(userService service.IUserService, authService service.IAuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// ListUsers godoc
// @Summary      List the caller's company members
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.UserView
// @Failure      400  {object}  common.AppError "Caller does not belong to a company"
// @Failure      403  {object}  common.AppError
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	companyID, ok := r.Context().Value(CompanyIDKey).(int64)
	if !ok {
		return common.NewAppError(http.StatusBadRequest, "User does not belong to a company", nil)
	}

	views, err := h.userService.ListUsersForCompany(r.Context(), companyID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not list users", err)
	}

	writeJSON(w, http.StatusOK, views)
	return nil
}

// UpdateUserRoles godoc
// @Summary      Replace a user's role set
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "User ID"
// @Param        roles body model.UpdateUserRolesRequest true "Role names"
// @Success      200  {object}  model.UserView
// @Failure      400  {object}  common.AppError "Unknown role name"
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/users/{userId}/roles [put]
func (h *UserHandler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.UpdateUserRolesRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	view, err := h.userService.UpdateUserRoles(r.Context(), userID, req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrUnknownRole):
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update roles", err)
		}
	}

	writeJSON(w, http.StatusOK, view)
	return nil
}

// AdminUpdatePassword godoc
// @Summary      Set a user's password without the old-password check
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "User ID"
// @Param        password body model.AdminUpdatePasswordRequest true "New password"
// @Success      200  {object}  model.MessageResponse
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/users/{userId}/password [put]
func (h *UserHandler) AdminUpdatePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.AdminUpdatePasswordRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.authService.AdminUpdatePassword(userID, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update password", err)
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Password updated successfully"})
	return nil
}

func userIDFromPath(r *http.Request) (int, *common.AppError) {
	userID, err := strconv.Atoi(r.PathValue("userId"))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", err)
	}
	return userID, nil
}
