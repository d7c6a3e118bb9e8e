package main

import (
	"go-project-api/app"

	_ "go-project-api/docs"
)

// @title           Project Management API
// @version         1.0
// @description     Multi-tenant project management backend: companies, join codes, users and sessions.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
