package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	"github.com/Temutjin2k/fair-fares/pkg/passhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User)}
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.SRCode]; ok {
		return types.ErrSRCodeTaken
	}
	m.users[user.SRCode] = user
	return nil
}

func (m *memUsers) Get(_ context.Context, srcode string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[srcode]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

func newTestService(t *testing.T) (*AuthService, *memUsers) {
	t.Helper()
	repo := newMemUsers()
	tokens := NewTokenService("test-secret", time.Hour, logger.Discard())
	svc := NewAuthService(repo, tokens, logger.Discard())
	svc.hash = func(pw string) (string, error) {
		return passhash.HashPasswordWithCost(pw, bcrypt.MinCost)
	}
	return svc, repo
}

func TestSignup_NormalizesInput(t *testing.T) {
	svc, repo := newTestService(t)

	profile, err := svc.Signup(context.Background(), models.SignupRequest{
		SRCode:   "  21-00001a ",
		Name:     " Juan Dela Cruz ",
		College:  " CICS ",
		Password: " secret ",
	})
	require.NoError(t, err)
	assert.Equal(t, &models.Profile{SRCode: "21-00001A", Name: "Juan Dela Cruz", College: "CICS"}, profile)

	stored := repo.users["21-00001A"]
	require.NotNil(t, stored)
	ok, err := passhash.VerifyPassword("secret", stored.GetPassword())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignup_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, models.SignupRequest{SRCode: " ", Password: "x"})
	assert.ErrorIs(t, err, types.ErrCredentialsNeeded)

	_, err = svc.Signup(ctx, models.SignupRequest{SRCode: "A1", Password: "   "})
	assert.ErrorIs(t, err, types.ErrCredentialsNeeded)

	_, err = svc.Signup(ctx, models.SignupRequest{SRCode: "A1", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, models.SignupRequest{SRCode: "a1", Password: "pw"})
	assert.ErrorIs(t, err, types.ErrSRCodeTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, models.SignupRequest{SRCode: "TEST001", Name: "Test User", College: "IT Department", Password: "test123"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		srcode   string
		password string
		success  bool
		message  string
	}{
		{name: "ok", srcode: "test001", password: "test123", success: true},
		{name: "wrong password", srcode: "TEST001", password: "nope", message: MsgIncorrectLogin},
		{name: "unknown user", srcode: "NOBODY", password: "test123", message: MsgIncorrectLogin},
		{name: "missing fields", srcode: "", password: "", message: MsgCredentialsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, tt.srcode, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.success, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			if tt.success {
				require.NotNil(t, resp.User)
				assert.Equal(t, "Test User", resp.User.Name)
				assert.NotEmpty(t, resp.Token)
			} else {
				assert.Nil(t, resp.User)
				assert.Empty(t, resp.Token)
			}
		})
	}
}

func TestLogin_RepositoryFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.err = errors.New("db down")

	_, err := svc.Login(context.Background(), "TEST001", "test123")
	assert.Error(t, err)
}

func TestAuthorize(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, models.SignupRequest{SRCode: "TEST001", Password: "test123"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, "TEST001", "test123")
	require.NoError(t, err)

	claims, err := svc.Authorize(ctx, resp.Token, "test001")
	require.NoError(t, err)
	assert.Equal(t, "TEST001", claims.Subject)

	_, err = svc.Authorize(ctx, resp.Token, "OTHER")
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = svc.Authorize(ctx, "garbage", "TEST001")
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Profile(ctx, "MISSING")
	assert.ErrorIs(t, err, types.ErrUserNotFound)

	_, err = svc.Signup(ctx, models.SignupRequest{SRCode: "TEST001", Name: "Test User", Password: "pw"})
	require.NoError(t, err)

	p, err := svc.Profile(ctx, " test001")
	require.NoError(t, err)
	assert.Equal(t, "Test User", p.Name)
}
