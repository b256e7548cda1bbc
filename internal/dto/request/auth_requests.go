package request

// TokenRequest exchanges the shared client key for a token pair.
type TokenRequest struct {
	ClientId  string `json:"client_id" binding:"required"`
	ClientKey string `json:"client_key" binding:"required"`
}

// RefreshRequest redeems a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
