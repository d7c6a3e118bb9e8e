package router

import (
	"go-project-api/handler"
	"go-project-api/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, signer service.ITokenSigner) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Public auth endpoints
	mux.Handle("POST /api/auth/register/company", handler.ErrorHandlingMiddleware(authHandler.RegisterCompany))
	mux.Handle("POST /api/auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /api/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /api/auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	authenticated := handler.AuthMiddleware(signer)

	mux.Handle("POST /api/auth/change-password",
		authenticated(handler.ErrorHandlingMiddleware(authHandler.ChangePassword)))

	// Admin endpoints
	mux.Handle("GET /api/users",
		authenticated(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.ListUsers))))
	mux.Handle("PUT /api/admin/users/{userId}/roles",
		authenticated(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRoles))))
	mux.Handle("PUT /api/admin/users/{userId}/password",
		authenticated(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.AdminUpdatePassword))))

	return mux
}
