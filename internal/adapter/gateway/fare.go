package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
)

func (c *Client) Login(ctx context.Context, srcode, password string) (*models.LoginResponse, error) {
	const op = "Client.Login"

	out := &models.LoginResponse{}
	err := c.do(ctx, op, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   models.LoginRequest{SRCode: srcode, Password: password},
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.Profile, error) {
	const op = "Client.Signup"

	out := &models.Profile{}
	err := c.do(ctx, op, request{
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   req,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context, who models.SessionIdentity) (*models.Profile, error) {
	const op = "Client.Profile"

	out := &models.Profile{}
	if err := c.do(ctx, op, authed(http.MethodGet, "/auth/me", who, nil), out); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns the student's records, most recent first.
func (c *Client) History(ctx context.Context, who models.SessionIdentity) ([]models.FareRecord, error) {
	const op = "Client.History"

	var out []models.FareRecord
	if err := c.do(ctx, op, authed(http.MethodGet, "/fare/user-history", who, nil), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.FareRecord{}
	}
	return out, nil
}

func (c *Client) WeeklyAverage(ctx context.Context, who models.SessionIdentity) (*models.WeeklyAverage, error) {
	const op = "Client.WeeklyAverage"

	out := &models.WeeklyAverage{}
	if err := c.do(ctx, op, authed(http.MethodGet, "/fare/weekly-average", who, nil), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Calculate prices a route. Failures attributable to a form field come back as *types.FieldError.
func (c *Client) Calculate(ctx context.Context, who models.SessionIdentity, req models.CalculateRequest) (*models.FareResult, error) {
	const op = "Client.Calculate"
	ctx = wrap.WithAction(ctx, types.ActionCalculateFare)

	out := &models.FareResult{}
	if err := c.do(ctx, op, authed(http.MethodPost, "/fare/calculate", who, req), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Save(ctx context.Context, who models.SessionIdentity, req models.SaveRequest) (*models.SaveResponse, error) {
	const op = "Client.Save"
	ctx = wrap.WithAction(ctx, types.ActionSaveFare)

	out := &models.SaveResponse{}
	if err := c.do(ctx, op, authed(http.MethodPost, "/fare/save", who, req), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a record owned by who. A missing or foreign record is a 404 *APIError.
func (c *Client) Delete(ctx context.Context, who models.SessionIdentity, recordID int64) error {
	const op = "Client.Delete"
	ctx = wrap.WithRecordID(wrap.WithAction(ctx, types.ActionDeleteFare), strconv.FormatInt(recordID, 10))

	path := fmt.Sprintf("/fare/delete/%d", recordID)
	return c.do(ctx, op, authed(http.MethodDelete, path, who, nil), nil)
}

func authed(method, path string, who models.SessionIdentity, body any) request {
	return request{
		method: method,
		path:   path,
		srcode: who.SRCode,
		token:  who.Token,
		body:   body,
	}
}
