package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var student = models.SessionIdentity{SRCode: "TEST001", Name: "Test User", College: "IT Department", Token: "tok"}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, srv.Client())
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body models.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.LoginRequest{SRCode: "TEST001", Password: "test123"}, body)

		w.Write([]byte(`{"success":true,"user":{"srcode":"TEST001","name":"Test User","college":"IT Department"},"token":"tok"}`))
	})

	resp, err := c.Login(context.Background(), "TEST001", "test123")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "Test User", resp.User.Name)
}

func TestClient_AuthedRequestsCarrySRCodeAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TEST001", r.URL.Query().Get("srcode"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/auth/me":
			w.Write([]byte(`{"srcode":"TEST001","name":"Test User","college":"IT Department"}`))
		case "/fare/user-history":
			w.Write([]byte(`[{"id":2,"district":1,"start_location":"Lemery","destination":"BSU","include_trike":false,"total_fare":35,"trike_fare":0,"created_at":"2026-10-18T08:00:00Z"}]`))
		case "/fare/weekly-average":
			w.Write([]byte(`{"weekly_average":35.5,"week_start":"2026-10-11T08:00:00Z","week_end":"2026-10-18T08:00:00Z"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	profile, err := c.Profile(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, "IT Department", profile.College)

	history, err := c.History(ctx, student)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(2), history[0].ID)
	assert.Equal(t, "BSU", history[0].Destination)
	assert.Equal(t, time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC), history[0].CreatedAt)

	avg, err := c.WeeklyAverage(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, 35.5, avg.WeeklyAverage)
}

func TestClient_HistoryNullIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	history, err := c.History(context.Background(), student)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestClient_Calculate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fare/calculate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"district":1,"start_location":"Lemery","destination":"BSU","include_trike":true}`, string(body))

		w.Write([]byte(`{"segments":[{"description":"Lemery to Grand Terminal","vehicle":"bus","fare":15},{"description":"Grand Terminal to BSU","vehicle":"jeepney","fare":20}],"trike_fare":10,"total_fare":45}`))
	})

	res, err := c.Calculate(context.Background(), student, models.CalculateRequest{
		District: 1, StartLocation: "Lemery", Destination: "BSU", IncludeTrike: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, 45.0, res.TotalFare)
	assert.Equal(t, 10.0, res.TrikeFare)
}

func TestClient_CalculateFieldError(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field types.Field
	}{
		{name: "start", body: `{"error":"Unknown start location 'X'","field":"start_location"}`, field: types.FieldStartLocation},
		{name: "destination", body: `{"error":"Unknown destination 'Y'","field":"destination"}`, field: types.FieldDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tt.body))
			})

			_, err := c.Calculate(context.Background(), student, models.CalculateRequest{District: 1, StartLocation: "X"})

			var fieldErr *types.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestClient_GenericErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "message", status: http.StatusBadRequest, body: `{"error":"No routes found for district 9"}`, message: "No routes found for district 9"},
		{name: "validation map", status: http.StatusUnprocessableEntity, body: `{"error":{"start_location":"must be provided","district":"must be between 1 and 6"}}`, message: "district must be between 1 and 6; start_location must be provided"},
		{name: "unknown field", status: http.StatusBadRequest, body: `{"error":"bad","field":"password"}`, message: "bad"},
		{name: "not json", status: http.StatusBadGateway, body: `<html>`, message: "fare service responded with status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Calculate(context.Background(), student, models.CalculateRequest{District: 1, StartLocation: "X"})

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Error())
		})
	}
}

func TestClient_SaveAndDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/fare/save":
			var body models.SaveRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "BSU", body.Destination)
			assert.Equal(t, `[{"description":"a","vehicle":"bus","fare":15}]`, body.FareDetails)
			w.Write([]byte(`{"message":"Data saved successfully!","id":7}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/fare/delete/7":
			w.Write([]byte(`{"message":"Record deleted successfully"}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Fare record not found"}`))
		}
	})
	ctx := context.Background()

	saved, err := c.Save(ctx, student, models.SaveRequest{
		District: 1, StartLocation: "Lemery", Destination: "BSU",
		TotalFare: 15, FareDetails: `[{"description":"a","vehicle":"bus","fare":15}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID)
	assert.Equal(t, "Data saved successfully!", saved.Message)

	require.NoError(t, c.Delete(ctx, student, 7))

	err = c.Delete(ctx, student, 8)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Fare record not found", apiErr.Message)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewWithHTTPClient(srv.URL, srv.Client())
	srv.Close()

	_, err := c.Login(context.Background(), "A", "b")
	require.Error(t, err)

	var apiErr *APIError
	assert.NotErrorAs(t, err, &apiErr)
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":`))
	})

	_, err := c.Login(context.Background(), "A", "b")
	assert.Error(t, err)
}

func TestClient_WatchDashboard(t *testing.T) {
	upgrader := websocket.Upgrader{}
	occurred := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/dashboard/TEST001", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		conn.WriteJSON(models.FareEvent{
			Type:          types.EventFareRecordSaved,
			SRCode:        "TEST001",
			RecordID:      7,
			WeeklyAverage: models.WeeklyAverage{WeeklyAverage: 40},
			OccurredAt:    occurred,
		})
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	})

	var got []models.FareEvent
	err := c.WatchDashboard(context.Background(), student, func(e models.FareEvent) {
		got = append(got, e)
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.EventFareRecordSaved, got[0].Type)
	assert.Equal(t, 40.0, got[0].WeeklyAverage.WeeklyAverage)
}

func TestClient_WatchDashboardStopsOnCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	connected := make(chan struct{})
	release := make(chan struct{})

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		close(connected)
		<-release
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.WatchDashboard(ctx, student, func(models.FareEvent) {})
	}()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("client never connected")
	}
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestClient_WatchDashboardRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.WatchDashboard(context.Background(), student, func(models.FareEvent) {})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
