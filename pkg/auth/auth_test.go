package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventify/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	token, err := Issue(testSecret, Principal{
		UserID: "507f1f77bcf86cd799439011",
		Email:  "ada@example.com",
		Role:   model.RoleParticipant,
	}, time.Hour)
	require.NoError(t, err)

	p, err := NewVerifier(testSecret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", p.UserID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, model.RoleParticipant, p.Role)
	assert.False(t, p.IsAdmin())
}

func TestVerify_Rejects(t *testing.T) {
	valid := Principal{UserID: "u1", Email: "a@b.c", Role: model.RoleAdmin}

	wrongSecret, err := Issue("other-secret", valid, time.Hour)
	require.NoError(t, err)

	expired, err := Issue(testSecret, valid, -time.Hour)
	require.NoError(t, err)

	noSubject, err := Issue(testSecret, Principal{Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	badRole, err := Issue(testSecret, Principal{UserID: "u1", Role: "superuser"}, time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", wrongSecret, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"missing subject", noSubject, ErrInvalidToken},
		{"unknown role", badRole, ErrInvalidToken},
		{"missing expiry", noExpiry, ErrInvalidToken},
		{"other algorithm", hs512, ErrInvalidToken},
	}

	verifier := NewVerifier(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := verifier.Verify(tt.token)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), &Principal{UserID: "u1", Role: model.RoleAdmin})
	p, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.IsAdmin())
}
