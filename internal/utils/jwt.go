package utils // package utils provides helper functions for signed visitor tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// VisitorIssuer is the iss claim on every visitor token.
const VisitorIssuer = "hotel-booking"

// ErrInvalidVisitorToken is returned for tokens that fail signature,
// expiry, issuer or subject checks.
var ErrInvalidVisitorToken = errors.New("invalid visitor token")

// VisitorToken is a signed HS256 JWT naming an anonymous visitor.  The
// visitor id is the only thing it carries; it scopes the visitor's ledger
// and wizard sessions and grants nothing else.
type VisitorToken struct {
	Token     string    // the serialized JWT string
	VisitorID string    // uuid carried in the sub claim
	Exp       time.Time // UTC expiration time
}

// NewVisitorToken mints a token for a fresh visitor id.
func NewVisitorToken(secret string, ttl time.Duration) (VisitorToken, error) {
	return SignVisitorToken(secret, uuid.NewString(), ttl)
}

// SignVisitorToken signs a token for an existing visitor id, used to
// refresh a token that is close to expiry without losing the ledger.
func SignVisitorToken(secret, visitorID string, ttl time.Duration) (VisitorToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   visitorID,
		Issuer:    VisitorIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return VisitorToken{}, err
	}
	return VisitorToken{Token: signed, VisitorID: visitorID, Exp: exp}, nil
}

// ParseVisitorToken validates raw and returns the visitor id and expiry.
// Only HS256 is accepted and the subject must be a uuid.
func ParseVisitorToken(secret, raw string) (VisitorToken, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(VisitorIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return VisitorToken{}, ErrInvalidVisitorToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return VisitorToken{}, ErrInvalidVisitorToken
	}
	return VisitorToken{Token: raw, VisitorID: claims.Subject, Exp: claims.ExpiresAt.Time}, nil
}
