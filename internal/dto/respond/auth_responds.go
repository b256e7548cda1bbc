package respond

// TokenRespond carries a freshly issued token pair.
type TokenRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
