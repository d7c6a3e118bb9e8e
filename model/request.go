package model

// RegisterCompanyRequest creates a tenant together with its first admin user.
type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=2,max=100"`
	Domain      string `json:"domain" validate:"omitempty,max=100"`
	Admin       struct {
		Name     string `json:"name" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	} `json:"admin" validate:"required"`
}

// RegisterRequest enrolls an ordinary user, optionally into a company via its
// join code.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	JoinCode string `json:"joinCode" validate:"omitempty,len=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshTokenRequest carries the refresh token when the client does not use
// the cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// AdminUpdatePasswordRequest is the privileged reset path; no old password.
type AdminUpdatePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// UpdateUserRolesRequest replaces a user's role set by role name.
type UpdateUserRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,required"`
}
