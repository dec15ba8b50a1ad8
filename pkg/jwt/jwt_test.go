package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TalentoHR-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-1", "acme", "hr", "talentohr", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, organizationID, role, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "acme", organizationID)
	assert.Equal(t, "hr", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-1", "acme", "hr", "talentohr", 60)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-1", "acme", "hr", "talentohr", -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(testSecret, token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "acme", "hr", "talentohr", 60)
	assert.Error(t, err)
}
