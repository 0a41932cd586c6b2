package domain

import "time"

// TokenPair is what the login and refresh endpoints return: a
// short-lived access token plus a longer-lived refresh token, both
// compact JWTs signed under their own purpose.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	TokenType    string        `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // seconds until access expiry
}
