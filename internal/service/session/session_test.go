package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	resp  *models.LoginResponse
	err   error
	calls int
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*models.LoginResponse, error) {
	f.calls++
	return f.resp, f.err
}

func okAuth() *fakeAuth {
	return &fakeAuth{resp: &models.LoginResponse{
		Success: true,
		User:    &models.Profile{SRCode: "TEST001", Name: "Test User", College: "IT Department"},
		Token:   "tok",
	}}
}

func TestStore_LoginPersistsAndAuthenticates(t *testing.T) {
	storage := NewMemoryStorage()
	s := NewStore(storage, okAuth(), logger.Discard())

	id, err := s.Login(context.Background(), "TEST001", "test123")
	require.NoError(t, err)
	assert.Equal(t, "TEST001", id.SRCode)
	assert.True(t, s.IsAuthenticated())

	data, err := storage.Read()
	require.NoError(t, err)
	assert.JSONEq(t, `{"srcode":"TEST001","name":"Test User","college":"IT Department","token":"tok"}`, string(data))
}

func TestStore_LoginRejectedUsesServerMessage(t *testing.T) {
	auth := &fakeAuth{resp: &models.LoginResponse{Success: false, Message: "Incorrect SRCODE or password."}}
	s := NewStore(NewMemoryStorage(), auth, logger.Discard())

	_, err := s.Login(context.Background(), "X", "y")

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "Incorrect SRCODE or password.", loginErr.Error())
	assert.False(t, s.IsAuthenticated())
}

type throttledErr struct{}

func (throttledErr) Error() string       { return "429 too many requests" }
func (throttledErr) UserMessage() string { return "too many login attempts, try again later" }

func TestStore_LoginTransportErrorKeepsServerWording(t *testing.T) {
	storage := NewMemoryStorage()
	s := NewStore(storage, &fakeAuth{err: fmt.Errorf("login: %w", throttledErr{})}, logger.Discard())

	_, err := s.Login(context.Background(), "TEST001", "test123")
	require.Error(t, err)
	assert.Equal(t, "too many login attempts, try again later", err.Error())
	assert.ErrorIs(t, err, throttledErr{})
	assert.False(t, s.IsAuthenticated())
}

func TestStore_LoginFailuresUseDefaultMessage(t *testing.T) {
	netErr := errors.New("connection refused")

	tests := []struct {
		name string
		auth *fakeAuth
	}{
		{name: "transport error", auth: &fakeAuth{err: netErr}},
		{name: "rejected without message", auth: &fakeAuth{resp: &models.LoginResponse{Success: false}}},
		{name: "success without user", auth: &fakeAuth{resp: &models.LoginResponse{Success: true}}},
		{name: "nil response", auth: &fakeAuth{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			s := NewStore(storage, tt.auth, logger.Discard())

			_, err := s.Login(context.Background(), "X", "y")
			require.Error(t, err)
			assert.Equal(t, DefaultLoginFailure, err.Error())
			assert.False(t, s.IsAuthenticated())

			data, _ := storage.Read()
			assert.Nil(t, data)
		})
	}

	s := NewStore(NewMemoryStorage(), &fakeAuth{err: netErr}, logger.Discard())
	_, err := s.Login(context.Background(), "X", "y")
	assert.ErrorIs(t, err, netErr)
}

func TestStore_LoginStorageFailureCommitsNothing(t *testing.T) {
	storage := NewMemoryStorage()
	storage.WriteErr = errors.New("disk full")
	s := NewStore(storage, okAuth(), logger.Discard())

	_, err := s.Login(context.Background(), "TEST001", "test123")
	require.Error(t, err)
	assert.Equal(t, DefaultLoginFailure, err.Error())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Identity())
}

func TestStore_RestoreWellFormed(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Write([]byte(`{"srcode":"21-00001","name":"Ana","college":"CICS"}`)))

	s := NewStore(storage, okAuth(), logger.Discard())
	s.Restore(context.Background())

	require.True(t, s.IsAuthenticated())
	assert.Equal(t, &models.SessionIdentity{SRCode: "21-00001", Name: "Ana", College: "CICS"}, s.Identity())
}

func TestStore_RestoreMalformedClearsStorage(t *testing.T) {
	for _, raw := range []string{`{not json`, `{"srcode":"   "}`, `[]`, `null`} {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Write([]byte(raw)))

		s := NewStore(storage, okAuth(), logger.Discard())
		s.Restore(context.Background())

		assert.False(t, s.IsAuthenticated(), raw)
		data, err := storage.Read()
		require.NoError(t, err)
		assert.Nil(t, data, raw)
	}
}

func TestStore_RestoreEmptyStorage(t *testing.T) {
	s := NewStore(NewMemoryStorage(), okAuth(), logger.Discard())
	s.Restore(context.Background())
	assert.False(t, s.IsAuthenticated())
}

func TestStore_LogoutThenRestoreIsUnauthenticated(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "fairfares", "session.json"))
	s := NewStore(storage, okAuth(), logger.Discard())

	_, err := s.Login(context.Background(), "TEST001", "test123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, s.IsAuthenticated())

	fresh := NewStore(storage, okAuth(), logger.Discard())
	fresh.Restore(context.Background())
	assert.False(t, fresh.IsAuthenticated())
}

func TestStore_IdentityIsCopy(t *testing.T) {
	s := NewStore(NewMemoryStorage(), okAuth(), logger.Discard())
	_, err := s.Login(context.Background(), "TEST001", "test123")
	require.NoError(t, err)

	s.Identity().Name = "changed"
	assert.Equal(t, "Test User", s.Identity().Name)
}

func TestFileStorage_WriteReadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStorage(path)

	data, err := fs.Read()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, fs.Write([]byte(`{"srcode":"A"}`)))
	require.NoError(t, fs.Write([]byte(`{"srcode":"B"}`)))

	data, err = fs.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"srcode":"B"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())
	data, err = fs.Read()
	require.NoError(t, err)
	assert.Nil(t, data)
}
