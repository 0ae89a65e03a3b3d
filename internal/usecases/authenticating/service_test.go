package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/awidars/stock-forecast-api/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Config{
		Auth: config.Auth{
			SecretKey:         "test-signing-key",
			AdminEmail:        "admin@example.com",
			AdminPasswordHash: string(hash),
			TokenTTLHours:     1,
		},
	}
}

func TestLogin_Success(t *testing.T) {
	service := NewService(testConfig(t))

	token, err := service.Login("admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestLogin_EmailIsNormalized(t *testing.T) {
	service := NewService(testConfig(t))

	token, err := service.Login("  Admin@Example.com ", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	service := NewService(testConfig(t))

	_, err := service.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service := NewService(testConfig(t))

	_, err := service.Login("other@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	service := NewService(testConfig(t))

	_, err := service.Login("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Garbage(t *testing.T) {
	service := NewService(testConfig(t))

	_, err := service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongKey(t *testing.T) {
	service := NewService(testConfig(t))

	token, err := service.Login("admin@example.com", "s3cret")
	require.NoError(t, err)

	otherCfg := testConfig(t)
	otherCfg.Auth.SecretKey = "another-key"
	other := NewService(otherCfg)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
