package models

// User is the authenticated profile returned by GET /api/profile.
type User struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	GroupID string `json:"group_id"`
	Image   string `json:"image,omitempty"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Message     string `json:"message,omitempty"`
}
