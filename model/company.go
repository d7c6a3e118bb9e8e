package model

import "time"

// Company is the tenant boundary. JoinCode is generated once at creation and
// never changes; ordinary users present it to self-enroll at registration.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	JoinCode  string    `json:"join_code"`
	CreatedAt time.Time `json:"created_at"`
}
