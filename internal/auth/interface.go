package auth

// JWTVerifier validates bearer tokens and returns their claims.
type JWTVerifier interface {
	// VerifyToken returns domain.ErrUnauthorized for any token that is
	// malformed, expired, badly signed or anonymous.
	VerifyToken(tokenString string) (*Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
