package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

var issuedAt = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func testIdentity() domain.Identity {
	return domain.Identity{
		UserID:       "user_2abc",
		Email:        "ada@example.com",
		Name:         "Ada",
		ProfileImage: "https://img.example.com/ada.png",
		Plan:         domain.PlanPro,
	}
}

func TestExtensionTokens_RoundTrip(t *testing.T) {
	codec := NewExtensionTokens(0)
	token, err := codec.Mint(testIdentity(), issuedAt)
	require.NoError(t, err)

	got, err := codec.Verify(token, issuedAt.Add(23*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", got.UserID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "https://img.example.com/ada.png", got.ProfileImage)
	assert.Equal(t, domain.Plan(""), got.Plan, "plan is not carried in the token")
}

func TestExtensionTokens_Expiry(t *testing.T) {
	codec := NewExtensionTokens(0)
	token, err := codec.Mint(testIdentity(), issuedAt)
	require.NoError(t, err)

	tests := []struct {
		name    string
		age     time.Duration
		wantErr error
	}{
		{"fresh", 0, nil},
		{"just under a day", ExtensionTokenTTL - time.Millisecond, nil},
		{"exactly a day", ExtensionTokenTTL, domerrors.ErrTokenExpired},
		{"25 hours", 25 * time.Hour, domerrors.ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(token, issuedAt.Add(tt.age))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtensionTokens_InvalidStructure(t *testing.T) {
	codec := NewExtensionTokens(0)
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name      string
		token     string
		malformed bool
	}{
		{"empty", "", true},
		{"not base64", "%%%not-base64%%%", true},
		{"not json", enc("hello"), true},
		{"missing email", enc(`{"userId":"u1","timestamp":1705314600000}`), false},
		{"missing user id", enc(`{"email":"a@b.c","timestamp":1705314600000}`), false},
		{"empty object", enc(`{}`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token, issuedAt)
			require.ErrorIs(t, err, domerrors.ErrTokenInvalidStructure)
			assert.Equal(t, tt.malformed, err == domerrors.ErrTokenMalformed)
		})
	}
}

func TestExtensionTokens_AcceptsURLSafeEncoding(t *testing.T) {
	codec := NewExtensionTokens(0)
	token := base64.RawURLEncoding.EncodeToString([]byte(`{"userId":"u1","email":"a@b.c","timestamp":` + "1705314600000" + `}`))
	got, err := codec.Verify(token, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}
