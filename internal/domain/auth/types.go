package auth

import "time"

// Config drives the site password gate. The gate is enabled only when both
// Password and SecretKey are set.
type Config struct {
	Password  string
	SecretKey string
	TokenTTL  time.Duration
}

// Enabled reports whether the gate enforces tokens.
func (c Config) Enabled() bool {
	return c.Password != "" && c.SecretKey != ""
}

// LoginRequest captures login details.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse returns the signed token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims are extracted from the site token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
