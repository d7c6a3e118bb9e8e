package handler

import (
	"context"
	"encoding/json"
	"go-project-api/model"
	"go-project-api/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withCompanyID(req *http.Request, companyID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), CompanyIDKey, companyID))
}

func TestUserHandler_ListUsers(t *testing.T) {
	t.Run("returns the company members", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewUserHandler(mockUsers, new(MockAuthService))

		views := []model.UserView{
			{ID: 1, Username: "alice", Email: "a@acme.com", Roles: []string{model.RoleAdmin}},
			{ID: 2, Username: "bob", Email: "bob@acme.com", Roles: []string{model.RoleUser}},
		}
		mockUsers.On("ListUsersForCompany", mock.Anything, int64(7)).Return(views, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rec := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.ListUsers)(rec, withCompanyID(req, 7))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got []model.UserView
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got, 2)
	})

	t.Run("caller without a company gets 400", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewUserHandler(mockUsers, new(MockAuthService))

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rec := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.ListUsers)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockUsers.AssertNotCalled(t, "ListUsersForCompany", mock.Anything, mock.Anything)
	})
}

func TestUserHandler_UpdateUserRoles(t *testing.T) {
	newRequest := func(userID, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+userID+"/roles", strings.NewReader(body))
		req.SetPathValue("userId", userID)
		return req
	}

	t.Run("replaces the role set", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewUserHandler(mockUsers, new(MockAuthService))

		view := &model.UserView{ID: 2, Username: "bob", Roles: []string{model.RoleAdmin, model.RoleUser}}
		mockUsers.On("UpdateUserRoles", mock.Anything, 2, []string{model.RoleAdmin, model.RoleUser}).Return(view, nil)

		rec := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.UpdateUserRoles)(rec, newRequest("2", `{"roles":["ADMIN","USER"]}`))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.UserView
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, []string{model.RoleAdmin, model.RoleUser}, got.Roles)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewUserHandler(mockUsers, new(MockAuthService))

		mockUsers.On("UpdateUserRoles", mock.Anything, 404, mock.Anything).Return(nil, service.ErrUserNotFound)

		rec := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.UpdateUserRoles)(rec, newRequest("404", `{"roles":["USER"]}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown role maps to 400", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewUserHandler(mockUsers, new(MockAuthService))

		mockUsers.On("UpdateUserRoles", mock.Anything, 2, mock.Anything).Return(nil, service.ErrUnknownRole)

		rec := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.UpdateUserRoles)(rec, newRequest("2", `{"roles":["SUPERVISOR"]}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric user ID maps to 400", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewUserHandler(mockUsers, new(MockAuthService))

		rec := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.UpdateUserRoles)(rec, newRequest("abc", `{"roles":["USER"]}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockUsers.AssertNotCalled(t, "UpdateUserRoles", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserHandler_AdminUpdatePassword(t *testing.T) {
	newRequest := func(userID, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+userID+"/password", strings.NewReader(body))
		req.SetPathValue("userId", userID)
		return req
	}

	t.Run("sets the password without the old-password check", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		h := NewUserHandler(new(MockUserService), mockAuth)

		mockAuth.On("AdminUpdatePassword", 2, "newpass123").Return(nil)

		rec := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.AdminUpdatePassword)(rec, newRequest("2", `{"newPassword":"newpass123"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Password updated successfully")
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		h := NewUserHandler(new(MockUserService), mockAuth)

		mockAuth.On("AdminUpdatePassword", 404, "newpass123").Return(service.ErrUserNotFound)

		rec := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.AdminUpdatePassword)(rec, newRequest("404", `{"newPassword":"newpass123"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		h := NewUserHandler(new(MockUserService), mockAuth)

		rec := httptest.NewRecorder()
		ErrorHandlingMiddleware(h.AdminUpdatePassword)(rec, newRequest("2", `{"newPassword":"short"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockAuth.AssertNotCalled(t, "AdminUpdatePassword", mock.Anything, mock.Anything)
	})
}
