package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/bakano/bakano-web/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "bakano-test"
)

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "ana@bakano.ec", testIssuer, time.Hour)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, "ana@bakano.ec", claims.Email)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", testIssuer, time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, "", testIssuer, time.Hour)
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	vigente, err := pkgjwt.Generate(testSecret, testUserID, "", testIssuer, time.Hour)
	require.NoError(t, err)
	vencido, err := pkgjwt.Generate(testSecret, testUserID, "", testIssuer, -time.Minute)
	require.NoError(t, err)

	now := time.Now()
	assert.False(t, pkgjwt.Expired(vigente, now))
	assert.True(t, pkgjwt.Expired(vencido, now))
	assert.False(t, pkgjwt.Expired("token-opaco", now), "un token opaco se valida solo en el servidor")

	exp, ok := pkgjwt.ExpiresAt(vigente)
	require.True(t, ok)
	assert.WithinDuration(t, now.Add(time.Hour), exp, 2*time.Second)
}
