package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/charvault/internal/dependencies/clock"
	"github.com/mcoot/charvault/internal/dependencies/idgen"
	"github.com/mcoot/charvault/internal/model"
)

const (
	// DefaultTokenTTL is how long an issued token stays valid
	DefaultTokenTTL = time.Hour

	// MinSecretLength is the shortest HMAC signing key accepted, in bytes
	MinSecretLength = 32

	signingAlgorithm = "HS256"
)

// Token verification errors
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
	ErrWeakSecret            = errors.New("signing secret too short")
)

// Claims is the signed payload of a bearer token.
type Claims struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 bearer tokens. Verification is
// stateless: everything needed lives in the token and the secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	ids    idgen.Generator
	parser *jwt.Parser
}

// NewTokenIssuer creates an issuer. A zero ttl means DefaultTokenTTL.
func NewTokenIssuer(secret []byte, ttl time.Duration, clk clock.Clock, ids idgen.Generator) (*TokenIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, MinSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenIssuer{
		secret: key,
		ttl:    ttl,
		clock:  clk,
		ids:    ids,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingAlgorithm}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clk.Now),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// Issue mints a token carrying the identity, expiring ttl from now.
func (t *TokenIssuer) Issue(identity model.Identity) (*IssuedToken, error) {
	now := t.clock.Now().Truncate(time.Second)
	expiresAt := now.Add(t.ttl)

	claims := Claims{
		AccountID: string(identity.AccountID),
		Name:      identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        t.ids.NewID(),
			Subject:   string(identity.AccountID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and expiry and returns the identity the token carries.
// The token is valid while now < exp.
func (t *TokenIssuer) Verify(token string) (*model.Identity, error) {
	claims := &Claims{}
	_, err := t.parser.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalidSignature
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, t.classifyTokenError(token, err)
	}
	if claims.AccountID == "" {
		return nil, ErrTokenMalformed
	}
	return &model.Identity{
		AccountID: model.AccountID(claims.AccountID),
		Name:      claims.Name,
	}, nil
}

// classifyTokenError maps parser failures onto the token errors. A
// three-segment token that fails to parse is only Malformed when its MAC
// still covers header.payload; otherwise it was altered after signing.
func (t *TokenIssuer) classifyTokenError(token string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, ErrTokenInvalidSignature):
		return ErrTokenInvalidSignature
	}

	parts := strings.Split(token, ".")
	if len(parts) == 3 && !t.macMatches(parts[0]+"."+parts[1], parts[2]) {
		return ErrTokenInvalidSignature
	}
	return ErrTokenMalformed
}

func (t *TokenIssuer) macMatches(signingString, encodedSig string) bool {
	sig, err := base64.RawURLEncoding.Strict().DecodeString(encodedSig)
	if err != nil {
		return false
	}
	return jwt.SigningMethodHS256.Verify(signingString, sig, t.secret) == nil
}
