package domain

import "time"

// TokenTypeBearer is the only token type issued by /token.
const TokenTypeBearer = "bearer"

// Token is a freshly minted access token. It is never persisted.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}
