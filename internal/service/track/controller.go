package track

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
)

const DefaultNoticeDelay = 3 * time.Second

type Option func(*Controller)

// WithNoticeDelay sets how long the save confirmation stays visible.
func WithNoticeDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.noticeDelay = d
	}
}

func WithDistrict(d types.DistrictID) Option {
	return func(c *Controller) {
		c.form.District = d
	}
}

// Controller drives the fare entry form: edits, calculation and saving.
// A result is only ever kept for the exact inputs that produced it.
type Controller struct {
	gateway     FareGateway
	catalog     LocationCatalog
	who         models.SessionIdentity
	log         logger.Logger
	noticeDelay time.Duration

	mu              sync.Mutex
	form            Form
	autoDestination bool
	result          *models.FareResult
	state           State
	notice          *Notice
	noticeSeq       uint64
	noticeTimer     *time.Timer
	generation      uint64
}

func NewController(gateway FareGateway, catalog LocationCatalog, who models.SessionIdentity, log logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		gateway:     gateway,
		catalog:     catalog,
		who:         who,
		log:         log,
		noticeDelay: DefaultNoticeDelay,
		form:        Form{District: types.MinDistrict},
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnFieldChange applies an edit coming from a text input.
func (c *Controller) OnFieldChange(field types.Field, value string) error {
	switch field {
	case types.FieldDistrict:
		d, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid district %q: %w", value, err)
		}
		c.SetDistrict(types.DistrictID(d))
	case types.FieldStartLocation:
		c.SetStartLocation(value)
	case types.FieldDestination:
		c.SetDestination(value)
	case types.FieldIncludeTrike:
		v, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid include_trike %q: %w", value, err)
		}
		c.SetIncludeTrike(v)
	default:
		return fmt.Errorf("%w: %s", types.ErrUnknownField, field)
	}
	return nil
}

func (c *Controller) SetDistrict(d types.DistrictID) {
	c.edit(func() {
		c.form.District = d
	})
}

// SetStartLocation also fills the destination with the home location when the
// start is home and the destination is empty or was filled that way before.
func (c *Controller) SetStartLocation(value string) {
	c.edit(func() {
		prev := c.form.StartLocation
		c.form.StartLocation = value
		c.form.StartLocationError = ""

		if !types.IsHome(value) {
			return
		}
		if c.form.Destination == "" || (types.IsHome(prev) && c.autoDestination) {
			c.form.Destination = types.HomeLocation
			c.autoDestination = true
		}
	})
}

func (c *Controller) SetDestination(value string) {
	c.edit(func() {
		c.form.Destination = value
		c.form.DestinationError = ""
		c.autoDestination = false
	})
}

func (c *Controller) SetIncludeTrike(v bool) {
	c.edit(func() {
		c.form.IncludeTrike = v
	})
}

// edit applies fn and invalidates anything derived from the previous inputs.
func (c *Controller) edit(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn()

	c.generation++
	c.result = nil
	c.clearNoticeLocked()
	if !c.busyLocked() {
		c.state = StateIdle
	}
}

// Calculate validates the form and asks the gateway to price the route.
func (c *Controller) Calculate(ctx context.Context) (*models.FareResult, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, types.ActionCalculateFare), c.who.SRCode)

	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return nil, types.ErrRequestInFlight
	}

	c.form.StartLocationError = ""
	c.form.DestinationError = ""

	start := strings.TrimSpace(c.form.StartLocation)
	if start == "" {
		c.form.StartLocationError = MsgStartLocationRequired
		c.mu.Unlock()
		return nil, types.ErrStartLocationRequired
	}

	req := models.CalculateRequest{
		District:      c.form.District,
		StartLocation: start,
		Destination:   destinationOrHome(c.form.Destination),
		IncludeTrike:  c.form.IncludeTrike,
	}
	gen := c.generation
	c.state = StateCalculating
	c.clearNoticeLocked()
	c.mu.Unlock()

	c.log.Debug(ctx, "calculating fare", "district", int(req.District), "start_location", req.StartLocation, "destination", req.Destination)

	res, err := c.gateway.Calculate(ctx, c.who, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.state = StateIdle
		c.log.Debug(ctx, "discarding fare result for stale inputs")
		return nil, types.ErrInputsChanged
	}

	if err != nil {
		c.settleLocked()

		var fieldErr *types.FieldError
		switch {
		case errors.As(err, &fieldErr) && fieldErr.Field == types.FieldStartLocation:
			c.form.StartLocationError = fieldErr.Message
		case errors.As(err, &fieldErr) && fieldErr.Field == types.FieldDestination:
			c.form.DestinationError = fieldErr.Message
		default:
			c.notice = &Notice{Kind: NoticeError, Message: noticeMessage(err, MsgCalculateFailed)}
		}
		c.log.Debug(ctx, "fare calculation failed", "error", err.Error())
		return nil, err
	}

	c.result = res.Clone()
	c.state = StateCalculated
	return res.Clone(), nil
}

// Save persists the current result together with the inputs that produced it.
func (c *Controller) Save(ctx context.Context) (*models.SaveResponse, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, types.ActionSaveFare), c.who.SRCode)

	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return nil, types.ErrRequestInFlight
	}

	if c.result == nil {
		c.clearNoticeLocked()
		c.notice = &Notice{Kind: NoticeError, Message: MsgCalculateFirst}
		c.mu.Unlock()
		return nil, types.ErrNoFareResult
	}

	segments := c.result.Segments
	if segments == nil {
		segments = []models.FareSegment{}
	}
	details, err := json.Marshal(segments)
	if err != nil {
		c.mu.Unlock()
		return nil, wrap.Error(ctx, fmt.Errorf("failed to encode fare details: %w", err))
	}

	req := models.SaveRequest{
		District:      c.form.District,
		StartLocation: strings.TrimSpace(c.form.StartLocation),
		Destination:   destinationOrHome(c.form.Destination),
		IncludeTrike:  c.form.IncludeTrike,
		TotalFare:     c.result.TotalFare,
		TrikeFare:     c.result.TrikeFare,
		FareDetails:   string(details),
	}
	gen := c.generation
	c.state = StateSaving
	c.clearNoticeLocked()
	c.mu.Unlock()

	resp, err := c.gateway.Save(ctx, c.who, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The inputs were edited during the call: the record exists, but the form
	// no longer describes it.
	stale := gen != c.generation

	if err != nil {
		c.settleLocked()
		if !stale {
			c.notice = &Notice{Kind: NoticeError, Message: noticeMessage(err, MsgSaveFailed)}
		}
		c.log.Debug(ctx, "saving fare failed", "error", err.Error())
		return nil, err
	}

	if resp != nil {
		c.log.Debug(wrap.WithRecordID(ctx, strconv.FormatInt(resp.ID, 10)), "fare saved")
	}

	if stale {
		c.settleLocked()
		return resp, nil
	}

	c.state = StateSaved
	c.notice = &Notice{Kind: NoticeSuccess, Message: MsgSaved}
	seq := c.noticeSeq
	c.noticeTimer = time.AfterFunc(c.noticeDelay, func() {
		c.expireNotice(seq)
	})
	return resp, nil
}

func (c *Controller) expireNotice(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.noticeSeq {
		return
	}
	c.notice = nil
	c.noticeTimer = nil
	if c.state == StateSaved {
		c.state = StateCalculated
	}
}

// Snapshot returns a copy of the form, result, state and the district's locations.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Form:      c.form,
		Result:    c.result.Clone(),
		State:     c.state,
		Locations: c.catalog.LocationsFor(c.form.District),
	}
	if c.notice != nil {
		n := *c.notice
		s.Notice = &n
	}
	return s
}

// Close stops the pending notice timer, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearNoticeLocked()
}

func (c *Controller) busyLocked() bool {
	return c.state == StateCalculating || c.state == StateSaving
}

// settleLocked leaves the in-flight state for the one matching the current result.
func (c *Controller) settleLocked() {
	if c.result != nil {
		c.state = StateCalculated
		return
	}
	c.state = StateIdle
}

func (c *Controller) clearNoticeLocked() {
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	c.notice = nil
	c.noticeSeq++
}

func destinationOrHome(dest string) string {
	if d := strings.TrimSpace(dest); d != "" {
		return d
	}
	return types.HomeLocation
}
