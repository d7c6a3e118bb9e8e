package handler

import (
	"context"
	"go-project-api/common"
	"go-project-api/model"
	"go-project-api/service"
	"net/http"
	"slices"
	"strings"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	UserEmailKey contextKey = "userEmail"
	UserRolesKey contextKey = "userRoles"
	CompanyIDKey contextKey = "companyID"
)

// AuthMiddleware verifies the bearer access token and stores the caller's
// identity and tenant claims in the request context.
func AuthMiddleware(signer service.ITokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
				err.Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				err := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
				err.Send(w)
				return
			}

			claims, err := signer.Verify(headerParts[1])
			if err != nil {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Subject)
			ctx = context.WithValue(ctx, UserRolesKey, claims.Roles)
			if claims.CompanyID != nil {
				ctx = context.WithValue(ctx, CompanyIDKey, *claims.CompanyID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware gates a route on the ADMIN role. Must run after
// AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roles, ok := r.Context().Value(UserRolesKey).([]string)

		if !ok || !slices.Contains(roles, model.RoleAdmin) {
			err := common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil)
			err.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
