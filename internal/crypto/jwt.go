package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptySecret  = errors.New("token signing secret must not be empty")
)

// TokenSigner issues bearer tokens bound to a user id and verifies them.
// Verify returns ErrInvalidToken for every kind of rejection.
type TokenSigner interface {
	Sign(userID string) (string, error)
	Verify(token string) (string, error)
}

// TokenUser is the identity section of the token payload.
type TokenUser struct {
	ID string `json:"id"`
}

// Claims is the JWT payload: the user id plus issue and expiry times.
type Claims struct {
	jwt.RegisteredClaims
	User TokenUser `json:"user"`
}

// JWTSigner signs HS256 tokens with a shared secret.
type JWTSigner struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTSigner creates a JWTSigner. The same secret must be used for issuance and verification.
func NewJWTSigner(secret string, expiry time.Duration) (*JWTSigner, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTSigner{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}, nil
}

var _ TokenSigner = (*JWTSigner)(nil)

// Expiry returns the validity window of issued tokens.
func (s *JWTSigner) Expiry() time.Duration {
	return s.expiry
}

// Sign creates a signed token for userID valid for the configured expiry window.
func (s *JWTSigner) Sign(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		User: TokenUser{ID: userID},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, algorithm and expiry and returns the embedded user id.
func (s *JWTSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.User.ID == "" {
		return "", ErrInvalidToken
	}

	return claims.User.ID, nil
}
