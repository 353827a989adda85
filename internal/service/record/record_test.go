package record

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
)

type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	records []models.FareRecord
	now     func() time.Time
}

func (m *memRepo) Create(_ context.Context, rec *models.FareRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	rec.CreatedAt = m.now()
	m.records = append(m.records, *rec)
	return nil
}

func (m *memRepo) ListBySRCode(_ context.Context, srcode string) ([]models.FareRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FareRecord{}
	for _, r := range slices.Backward(m.records) {
		if r.SRCode == srcode {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) GetForUpdate(_ context.Context, id int64) (*models.FareRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, types.ErrRecordNotFound
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(r models.FareRecord) bool { return r.ID == id })
	if len(m.records) == before {
		return types.ErrRecordNotFound
	}
	return nil
}

func (m *memRepo) AverageTotal(_ context.Context, srcode string, from, to time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum float64
	var n int
	for _, r := range m.records {
		if r.SRCode == srcode && !r.CreatedAt.Before(from) && !r.CreatedAt.After(to) {
			sum += r.TotalFare
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

type passTx struct{ calls int }

func (p *passTx) Do(ctx context.Context, fn func(context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type recPublisher struct {
	events []models.FareEvent
	err    error
}

func (p *recPublisher) PublishFareEvent(_ context.Context, ev models.FareEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	svc   *Service
	repo  *memRepo
	tx    *passTx
	pub   *recPublisher
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	now := func() time.Time { return f.clock }
	f.repo = &memRepo{now: now}
	f.tx = &passTx{}
	f.pub = &recPublisher{}
	f.svc = NewService(f.repo, f.tx, f.pub, logger.Discard())
	f.svc.now = now
	return f
}

func saveReq(total float64) models.SaveRequest {
	return models.SaveRequest{
		District:      4,
		StartLocation: "LEMERY",
		Destination:   "BSU",
		IncludeTrike:  true,
		TotalFare:     total,
		TrikeFare:     10,
		FareDetails:   `[{"description":"Lemery to Grand Terminal","vehicle":"bus","fare":15}]`,
	}
}

func TestSave_PersistsAndPublishes(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Save(context.Background(), "TEST001", saveReq(45))
	require.NoError(t, err)
	assert.Equal(t, &models.SaveResponse{Message: MsgSaved, ID: 1}, resp)

	history, err := f.svc.History(context.Background(), "TEST001")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "BSU", history[0].Destination)
	assert.Equal(t, 45.0, history[0].TotalFare)

	require.Len(t, f.pub.events, 1)
	ev := f.pub.events[0]
	assert.Equal(t, types.EventFareRecordSaved, ev.Type)
	assert.Equal(t, int64(1), ev.RecordID)
	assert.Equal(t, 45.0, ev.WeeklyAverage.WeeklyAverage)
}

func TestSave_DefaultsDestinationAndValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := saveReq(30)
	req.Destination = " "
	_, err := f.svc.Save(ctx, "TEST001", req)
	require.NoError(t, err)
	assert.Equal(t, types.HomeLocation, f.repo.records[0].Destination)

	req = saveReq(30)
	req.District = 9
	_, err = f.svc.Save(ctx, "TEST001", req)
	assert.ErrorIs(t, err, types.ErrUnknownDistrict)

	req = saveReq(30)
	req.StartLocation = ""
	_, err = f.svc.Save(ctx, "TEST001", req)
	var fe *types.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, types.FieldStartLocation, fe.Field)

	req = saveReq(-1)
	_, err = f.svc.Save(ctx, "TEST001", req)
	assert.ErrorIs(t, err, types.ErrInvalidFare)
}

func TestSave_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	resp, err := f.svc.Save(context.Background(), "TEST001", saveReq(20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestHistory_MostRecentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, total := range []float64{10, 20, 30} {
		_, err := f.svc.Save(ctx, "TEST001", saveReq(total))
		require.NoError(t, err)
		f.clock = f.clock.Add(time.Minute)
	}
	_, err := f.svc.Save(ctx, "OTHER", saveReq(99))
	require.NoError(t, err)

	history, err := f.svc.History(ctx, "TEST001")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{history[0].ID, history[1].ID, history[2].ID})
}

func TestDelete_OwnershipInsideTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, "TEST001", saveReq(45))
	require.NoError(t, err)

	err = f.svc.Delete(ctx, "INTRUDER", 1)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)
	assert.Len(t, f.repo.records, 1)

	err = f.svc.Delete(ctx, "TEST001", 42)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	require.NoError(t, f.svc.Delete(ctx, "TEST001", 1))
	assert.Empty(t, f.repo.records)
	assert.Equal(t, 3, f.tx.calls)

	last := f.pub.events[len(f.pub.events)-1]
	assert.Equal(t, types.EventFareRecordDeleted, last.Type)
	assert.Equal(t, int64(1), last.RecordID)
	assert.Zero(t, last.WeeklyAverage.WeeklyAverage)
}

func TestWeeklyAverage_TrailingSevenDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	avg, err := f.svc.WeeklyAverage(ctx, "TEST001")
	require.NoError(t, err)
	assert.Zero(t, avg.WeeklyAverage)

	start := f.clock
	f.clock = start.Add(-8 * 24 * time.Hour)
	_, err = f.svc.Save(ctx, "TEST001", saveReq(100))
	require.NoError(t, err)

	f.clock = start.Add(-2 * 24 * time.Hour)
	for _, total := range []float64{10, 20, 20} {
		_, err = f.svc.Save(ctx, "TEST001", saveReq(total))
		require.NoError(t, err)
	}

	f.clock = start
	avg, err = f.svc.WeeklyAverage(ctx, "TEST001")
	require.NoError(t, err)
	assert.Equal(t, 16.67, avg.WeeklyAverage)
	assert.Equal(t, start, avg.WeekEnd)
	assert.Equal(t, start.Add(-7*24*time.Hour), avg.WeekStart)
}
