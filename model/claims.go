package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the access-token payload. Subject (in RegisteredClaims) is the
// user's email; CompanyID is nil for users registered without a join code.
type AppClaims struct {
	UserID    int      `json:"user_id"`
	CompanyID *int64   `json:"company_id,omitempty"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}
