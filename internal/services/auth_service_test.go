package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

func TestSignup(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "Sam Lee", "  Sam@Example.COM ", "hunter22", models.RoleInterviewee)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.Equal(t, models.RoleInterviewee, user.Role)
	require.NotEmpty(t, token)

	claims := &utils.AuthClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "interviewee", claims.Role)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Sam", "sam@example.com", "hunter22", models.RoleInterviewee)
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "Other Sam", "SAM@example.com", "different", models.RoleInterviewer)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestSignup_Validation(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	cases := []struct {
		name     string
		userName string
		email    string
		password string
		role     models.UserRole
	}{
		{"missing name", "", "a@b.com", "pw", models.RoleInterviewee},
		{"missing email", "Sam", "", "pw", models.RoleInterviewee},
		{"missing password", "Sam", "a@b.com", "", models.RoleInterviewee},
		{"bad role", "Sam", "a@b.com", "pw", models.UserRole("admin")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tc.userName, tc.email, tc.password, tc.role)
			require.Error(t, err)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Dana", "dana@example.com", "s3cret", models.RoleInterviewer)
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "DANA@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.NotEmpty(t, token)
	// hashes never leave the repo layer
	assert.Equal(t, models.RoleInterviewer, user.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Dana", "dana@example.com", "s3cret", models.RoleInterviewer)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "dana@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	// unknown account reads the same as a bad password
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}
