package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is a display-only view of the session credential's claims.
// The credential is contractually opaque: nothing here is verified and
// nothing here may feed an authorization decision. It exists so the UI can
// show "session expires at ..." when the backend happens to issue JWTs.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenInfo parses the current credential as an unverified JWT. It returns
// ok=false when logged out or when the credential is not JWT-shaped.
func (s *Store) TokenInfo() (TokenInfo, bool) {
	credential, present := s.Credential()
	if !present {
		return TokenInfo{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return TokenInfo{}, false
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
