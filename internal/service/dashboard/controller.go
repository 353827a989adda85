package dashboard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"golang.org/x/sync/errgroup"
)

type FareGateway interface {
	Profile(ctx context.Context, who models.SessionIdentity) (*models.Profile, error)
	History(ctx context.Context, who models.SessionIdentity) ([]models.FareRecord, error)
	WeeklyAverage(ctx context.Context, who models.SessionIdentity) (*models.WeeklyAverage, error)
	Delete(ctx context.Context, who models.SessionIdentity, recordID int64) error
}

type Section string

const (
	SectionProfile       Section = "profile"
	SectionHistory       Section = "history"
	SectionWeeklyAverage Section = "weekly_average"
)

type Option func(*Controller)

// WithRollbackOnFailure puts a record back at its old position when deleting it fails.
// Without it the local removal stands even if the server kept the record.
func WithRollbackOnFailure() Option {
	return func(c *Controller) {
		c.rollback = true
	}
}

// Snapshot is a copy of the dashboard. Errors holds the sections whose last fetch failed.
type Snapshot struct {
	Loaded        bool
	Profile       *models.Profile
	WeeklyAverage *models.WeeklyAverage
	History       []models.FareRecord
	Errors        map[Section]error
}

// Controller owns the per-user summary: profile, weekly average and history.
type Controller struct {
	gateway  FareGateway
	log      logger.Logger
	rollback bool

	mu      sync.Mutex
	who     *models.SessionIdentity
	loaded  bool
	profile *models.Profile
	average *models.WeeklyAverage
	history []models.FareRecord
	errs    map[Section]error
}

func NewController(gateway FareGateway, log logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		gateway: gateway,
		log:     log,
		errs:    make(map[Section]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches profile, history and weekly average concurrently. Every fetch is
// attempted; successful sections are applied even if another one fails, in which
// case the returned error wraps types.ErrLoadFailed. A nil or empty identity loads
// an empty dashboard without any request.
func (c *Controller) Load(ctx context.Context, who *models.SessionIdentity) error {
	ctx = wrap.WithAction(ctx, types.ActionDashboardLoad)

	c.mu.Lock()
	c.reset()
	if !who.Valid() {
		c.loaded = true
		c.mu.Unlock()
		return nil
	}
	id := *who
	c.who = &id
	c.mu.Unlock()

	ctx = wrap.WithUserID(ctx, id.SRCode)

	var (
		g errgroup.Group

		profile    *models.Profile
		history    []models.FareRecord
		average    *models.WeeklyAverage
		profileErr error
		historyErr error
		averageErr error
	)

	g.Go(func() error {
		profile, profileErr = c.gateway.Profile(ctx, id)
		return profileErr
	})
	g.Go(func() error {
		history, historyErr = c.gateway.History(ctx, id)
		return historyErr
	})
	g.Go(func() error {
		average, averageErr = c.gateway.WeeklyAverage(ctx, id)
		return averageErr
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = true
	if profileErr == nil {
		c.profile = profile
	} else {
		c.errs[SectionProfile] = profileErr
	}
	if historyErr == nil {
		c.history = slices.Clone(history)
	} else {
		c.errs[SectionHistory] = historyErr
	}
	if averageErr == nil {
		c.average = average
	} else {
		c.errs[SectionWeeklyAverage] = averageErr
	}

	if len(c.errs) == 0 {
		c.log.Debug(ctx, "dashboard loaded", "records", len(c.history))
		return nil
	}

	failed := make([]string, 0, len(c.errs))
	for s := range c.errs {
		failed = append(failed, string(s))
	}
	slices.Sort(failed)
	c.log.Debug(ctx, "dashboard partially loaded", "failed_sections", strings.Join(failed, ","))

	return fmt.Errorf("%w: %w", types.ErrLoadFailed, errors.Join(profileErr, historyErr, averageErr))
}

// Delete removes the record from the local history first, then on the server.
// On success the weekly average is fetched again, once; the history is not.
func (c *Controller) Delete(ctx context.Context, recordID int64) error {
	ctx = wrap.WithRecordID(wrap.WithAction(ctx, types.ActionDeleteFare), strconv.FormatInt(recordID, 10))

	c.mu.Lock()
	if c.who == nil {
		c.mu.Unlock()
		return types.ErrNotAuthenticated
	}
	who := *c.who

	idx := slices.IndexFunc(c.history, func(r models.FareRecord) bool { return r.ID == recordID })
	var removed models.FareRecord
	if idx >= 0 {
		removed = c.history[idx]
		c.history = slices.Delete(c.history, idx, idx+1)
	}
	c.mu.Unlock()

	ctx = wrap.WithUserID(ctx, who.SRCode)

	if err := c.gateway.Delete(ctx, who, recordID); err != nil {
		if c.rollback && idx >= 0 {
			c.restore(idx, removed)
		}
		c.log.Debug(ctx, "delete failed", "error", err.Error(), "rolled_back", c.rollback && idx >= 0)
		return err
	}

	average, err := c.gateway.WeeklyAverage(ctx, who)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sameIdentity(who) {
		return nil
	}
	if err != nil {
		c.errs[SectionWeeklyAverage] = err
		c.log.Debug(ctx, "weekly average refresh failed", "error", err.Error())
		return nil
	}
	c.average = average
	delete(c.errs, SectionWeeklyAverage)
	return nil
}

// ApplyEvent applies a pushed fare event for the loaded identity.
// It reports whether the event was for this dashboard.
func (c *Controller) ApplyEvent(event models.FareEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.who == nil || !strings.EqualFold(c.who.SRCode, event.SRCode) {
		return false
	}

	avg := event.WeeklyAverage
	c.average = &avg
	delete(c.errs, SectionWeeklyAverage)

	if event.Type == types.EventFareRecordDeleted {
		c.history = slices.DeleteFunc(c.history, func(r models.FareRecord) bool { return r.ID == event.RecordID })
	}
	return true
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Loaded:  c.loaded,
		History: slices.Clone(c.history),
		Errors:  maps.Clone(c.errs),
	}
	if s.History == nil {
		s.History = []models.FareRecord{}
	}
	if c.profile != nil {
		p := *c.profile
		s.Profile = &p
	}
	if c.average != nil {
		a := *c.average
		s.WeeklyAverage = &a
	}
	return s
}

func (c *Controller) restore(idx int, record models.FareRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slices.ContainsFunc(c.history, func(r models.FareRecord) bool { return r.ID == record.ID }) {
		return
	}
	idx = min(idx, len(c.history))
	c.history = slices.Insert(c.history, idx, record)
}

func (c *Controller) sameIdentity(who models.SessionIdentity) bool {
	return c.who != nil && c.who.SRCode == who.SRCode
}

func (c *Controller) reset() {
	c.who = nil
	c.loaded = false
	c.profile = nil
	c.average = nil
	c.history = nil
	c.errs = make(map[Section]error)
}
