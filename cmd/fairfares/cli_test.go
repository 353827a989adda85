package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

// fakeServer answers the fare API for TEST001 and records saved requests.
type fakeServer struct {
	mu      sync.Mutex
	saved   []models.SaveRequest
	deleted []string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/auth/login" && r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid or expired token"}`))
		return
	}

	switch {
	case r.URL.Path == "/auth/login":
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "test123" {
			w.Write([]byte(`{"success":false,"message":"Incorrect SRCODE or password. Please signup if you don't have an account."}`))
			return
		}
		w.Write([]byte(`{"success":true,"user":{"srcode":"TEST001","name":"Test User","college":"IT Department"},"token":"tok"}`))
	case r.URL.Path == "/fare/calculate":
		w.Write([]byte(`{"segments":[{"description":"Lemery to Grand Terminal","vehicle":"jeepney","fare":15},{"description":"Calaca to BSU","vehicle":"bus","fare":20}],"trike_fare":10,"total_fare":45}`))
	case r.URL.Path == "/fare/save":
		var req models.SaveRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.saved = append(f.saved, req)
		f.mu.Unlock()
		w.Write([]byte(`{"message":"Data saved successfully!","id":7}`))
	case r.URL.Path == "/fare/user-history":
		w.Write([]byte(`[{"id":7,"district":1,"start_location":"Lemery","destination":"BSU","include_trike":true,"total_fare":45,"trike_fare":10,"created_at":"2026-10-18T08:00:00Z"}]`))
	case r.URL.Path == "/fare/weekly-average":
		w.Write([]byte(`{"weekly_average":45,"week_start":"2026-10-11T08:00:00Z","week_end":"2026-10-18T08:00:00Z"}`))
	case r.URL.Path == "/auth/me":
		w.Write([]byte(`{"srcode":"TEST001","name":"Test User","college":"IT Department"}`))
	case strings.HasPrefix(r.URL.Path, "/fare/delete/"):
		id := strings.TrimPrefix(r.URL.Path, "/fare/delete/")
		if id != "7" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Fare record not found"}`))
			return
		}
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		f.mu.Unlock()
		w.Write([]byte(`{"message":"Record deleted successfully"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newEnv(t *testing.T) *fakeServer {
	t.Helper()
	fake := &fakeServer{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("GATEWAY_BASE_URL", srv.URL)
	t.Setenv("SESSION_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("LOG_LEVEL", "ERROR")
	configPath = filepath.Join(dir, "absent.yaml")
	return fake
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append(args, "--config", configPath))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	newEnv(t)

	_, err := run(t, "whoami")
	require.ErrorIs(t, err, types.ErrNotAuthenticated)

	out, err := run(t, "login", "--srcode", "TEST001", "--password", "test123")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Test User (TEST001)")

	// a new invocation restores the stored session
	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "SR-code: TEST001")
	assert.Contains(t, out, "College: IT Department")

	_, err = run(t, "logout")
	require.NoError(t, err)

	_, err = run(t, "whoami")
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestCLI_LoginRejected(t *testing.T) {
	newEnv(t)

	_, err := run(t, "login", "--srcode", "TEST001", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect SRCODE or password")

	_, err = run(t, "whoami")
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestCLI_TrackAndSave(t *testing.T) {
	fake := newEnv(t)

	_, err := run(t, "login", "--srcode", "TEST001", "--password", "test123")
	require.NoError(t, err)

	out, err := run(t, "track", "--district", "1", "--start", "Lemery", "--trike", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Lemery -> BSU")
	assert.Contains(t, out, "45.00")
	assert.Contains(t, out, "Data saved successfully!")

	require.Len(t, fake.saved, 1)
	assert.Equal(t, "BSU", fake.saved[0].Destination)
	assert.Equal(t, types.DistrictID(1), fake.saved[0].District)
	assert.InDelta(t, 45, fake.saved[0].TotalFare, 0.001)
}

func TestCLI_TrackWithoutStart(t *testing.T) {
	fake := newEnv(t)

	_, err := run(t, "login", "--srcode", "TEST001", "--password", "test123")
	require.NoError(t, err)

	out, err := run(t, "track", "--district", "1", "--start", "", "--save=false")
	require.ErrorIs(t, err, types.ErrStartLocationRequired)
	assert.Contains(t, out, "Please enter a start location")
	assert.Empty(t, fake.saved)
}

func TestCLI_DashboardAndDelete(t *testing.T) {
	fake := newEnv(t)

	_, err := run(t, "login", "--srcode", "TEST001", "--password", "test123")
	require.NoError(t, err)

	out, err := run(t, "dashboard", "--watch=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Test User (TEST001)")
	assert.Contains(t, out, "Weekly average: 45.00")
	assert.Contains(t, out, "Lemery -> BSU")

	out, err = run(t, "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Record 7 deleted")
	assert.Contains(t, out, "No saved fares yet")
	assert.Equal(t, []string{"7"}, fake.deleted)

	_, err = run(t, "delete", "8")
	assert.Error(t, err)
}

func TestCLI_Locations(t *testing.T) {
	newEnv(t)

	out, err := run(t, "locations", "--district", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "District 2:")
	assert.NotContains(t, out, "District 1:")

	_, err = run(t, "locations", "--district", "9")
	assert.ErrorIs(t, err, types.ErrUnknownDistrict)
}
