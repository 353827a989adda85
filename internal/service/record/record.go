package record

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/internal/service/fare"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/Temutjin2k/fair-fares/pkg/metrics"
)

const (
	MsgSaved   = "Data saved successfully!"
	MsgDeleted = "Record deleted successfully"

	averageWindow = 7 * 24 * time.Hour
)

// Service stores fare records and announces every change on the event bus.
type Service struct {
	repo      RecordRepo
	trm       TxManager
	publisher EventPublisher
	now       func() time.Time
	log       logger.Logger
}

func NewService(repo RecordRepo, trm TxManager, publisher EventPublisher, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		trm:       trm,
		publisher: publisher,
		now:       time.Now,
		log:       log,
	}
}

func (s *Service) Save(ctx context.Context, srcode string, req models.SaveRequest) (resp *models.SaveResponse, err error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, types.ActionSaveFare), srcode)
	defer func() { metrics.RecordFareRecord("save", req.TotalFare, err) }()

	if !req.District.Valid() {
		return nil, wrap.Error(ctx, &fare.DistrictError{District: req.District})
	}
	start := strings.TrimSpace(req.StartLocation)
	if start == "" {
		return nil, wrap.Error(ctx, types.NewFieldError(types.FieldStartLocation, "Start location is required"))
	}
	dest := strings.TrimSpace(req.Destination)
	if dest == "" {
		dest = types.HomeLocation
	}
	if req.TotalFare < 0 || req.TrikeFare < 0 {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: fares must not be negative", types.ErrInvalidFare))
	}

	details := req.FareDetails
	if strings.TrimSpace(details) == "" {
		details = "[]"
	}

	rec := &models.FareRecord{
		SRCode:        srcode,
		District:      req.District,
		StartLocation: start,
		Destination:   dest,
		IncludeTrike:  req.IncludeTrike,
		TotalFare:     fare.Round2(req.TotalFare),
		TrikeFare:     fare.Round2(req.TrikeFare),
		FareDetails:   details,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ctx = wrap.WithRecordID(ctx, strconv.FormatInt(rec.ID, 10))
	s.log.Info(ctx, "fare record saved", "total_fare", rec.TotalFare)
	s.announce(ctx, types.EventFareRecordSaved, srcode, rec.ID)

	return &models.SaveResponse{Message: MsgSaved, ID: rec.ID}, nil
}

// History returns the user's records, most recent first.
func (s *Service) History(ctx context.Context, srcode string) ([]models.FareRecord, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, types.ActionFareHistory), srcode)

	records, err := s.repo.ListBySRCode(ctx, srcode)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return records, nil
}

// Delete removes a record owned by srcode. Missing and foreign records both yield types.ErrRecordNotFound.
func (s *Service) Delete(ctx context.Context, srcode string, id int64) (err error) {
	ctx = wrap.WithRecordID(wrap.WithUserID(wrap.WithAction(ctx, types.ActionDeleteFare), srcode), strconv.FormatInt(id, 10))
	defer func() { metrics.RecordFareRecord("delete", 0, err) }()

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec.SRCode != srcode {
			return types.ErrRecordNotFound
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "fare record deleted")
	s.announce(ctx, types.EventFareRecordDeleted, srcode, id)
	return nil
}

// WeeklyAverage averages total fares over the trailing seven days, rounded to centavos.
func (s *Service) WeeklyAverage(ctx context.Context, srcode string) (*models.WeeklyAverage, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, types.ActionWeeklyAverage), srcode)

	end := s.now().UTC()
	start := end.Add(-averageWindow)

	avg, err := s.repo.AverageTotal(ctx, srcode, start, end)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return &models.WeeklyAverage{
		WeeklyAverage: fare.Round2(avg),
		WeekStart:     start,
		WeekEnd:       end,
	}, nil
}

// announce publishes a fare event. The write already happened, so failures are only logged.
func (s *Service) announce(ctx context.Context, typ types.FareEvent, srcode string, id int64) {
	if s.publisher == nil {
		return
	}

	ev := models.FareEvent{
		Type:       typ,
		SRCode:     srcode,
		RecordID:   id,
		OccurredAt: s.now().UTC(),
	}
	if avg, err := s.WeeklyAverage(ctx, srcode); err == nil {
		ev.WeeklyAverage = *avg
	} else {
		s.log.Warn(ctx, "weekly average unavailable for event", "error", err.Error())
	}

	if err := s.publisher.PublishFareEvent(ctx, ev); err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to publish fare event", err)
	}
}
