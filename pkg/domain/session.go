package domain

// Token is the bearer token issued by the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Message is the generic acknowledgement body returned by write endpoints.
type Message struct {
	Message string `json:"message"`
}
