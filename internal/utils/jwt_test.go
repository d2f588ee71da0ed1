package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitorTokenRoundTrip(t *testing.T) {
	tok, err := NewVisitorToken("secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.VisitorID)

	got, err := ParseVisitorToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.VisitorID, got.VisitorID)
	assert.WithinDuration(t, tok.Exp, got.Exp, time.Second)
}

func TestParseVisitorTokenRejects(t *testing.T) {
	good, err := NewVisitorToken("secret", time.Hour)
	require.NoError(t, err)
	expired, err := NewVisitorToken("secret", -time.Minute)
	require.NoError(t, err)
	notUUID, err := SignVisitorToken("secret", "admin", time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: good.VisitorID, Issuer: VisitorIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret": good.Token,
		"expired":      expired.Token,
		"non uuid sub": notUUID.Token,
		"alg none":     none,
		"garbage":      "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			secret := "secret"
			if name == "wrong secret" {
				secret = "other"
			}
			_, err := ParseVisitorToken(secret, raw)
			assert.ErrorIs(t, err, ErrInvalidVisitorToken)
		})
	}
}
