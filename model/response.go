package model

// AuthResponse is returned by every flow that establishes a session. The
// refresh token is also set as an HttpOnly cookie; clients may use either.
type AuthResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
