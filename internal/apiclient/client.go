// Package apiclient is the HTTP transport to the prediction backend. Fetch
// is the single primitive; the typed methods wrap it per endpoint.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/logging"
	"github.com/tinytelemetry/pitwall/internal/model"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	UserAgent  string
}

// Client implements model.PredictionSource over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
	log  logrus.FieldLogger
	ua   string
}

var _ model.PredictionSource = (*Client)(nil)

// New returns a client for the backend at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url %q must be http or https", baseURL)
	}
	c := &Client{base: u, http: opts.HTTPClient, log: opts.Logger, ua: opts.UserAgent}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if c.ua == "" {
		c.ua = "pitwall"
	}
	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.base.String() }

// Fetch issues GET path?params and decodes the JSON body into dest.
// Deadlines come from ctx.
func (c *Client) Fetch(ctx context.Context, path string, params url.Values, dest any) error {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set(RequestIDHeader, reqID)

	log := c.log.WithFields(logrus.Fields{"path": path, "request_id": reqID})
	start := time.Now()
	log.Debug("apiclient: request")

	err = c.do(req, path, dest)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.WithError(err).Debug("apiclient: request cancelled")
		} else {
			log.WithError(err).Warn("apiclient: request failed")
		}
		return err
	}
	log.WithField("took", time.Since(start).Round(time.Millisecond)).Debug("apiclient: response")
	return nil
}

func (c *Client) do(req *http.Request, path string, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// Surface ctx errors unwrapped from *url.Error for callers using errors.Is.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("apiclient: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Code:   resp.StatusCode,
			Status: strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))),
			Detail: detail(body),
		}
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

// detail extracts a FastAPI-style {"detail": ...} message. Validation
// errors carry a list of objects with a "msg" field.
func detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func iters(n int) url.Values {
	return url.Values{"iters": {strconv.Itoa(n)}}
}

// Health returns the backend liveness payload.
func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var result model.Health
	err := c.Fetch(ctx, "/api/health", nil, &result)
	return result, err
}

// Ratings returns the empirical driver and car ratings.
func (c *Client) Ratings(ctx context.Context) (model.Ratings, error) {
	var result model.Ratings
	err := c.Fetch(ctx, "/api/ratings", nil, &result)
	return result, err
}

// Circuits returns the season calendar.
func (c *Client) Circuits(ctx context.Context) ([]model.Circuit, error) {
	var result model.CircuitList
	err := c.Fetch(ctx, "/api/circuits", nil, &result)
	return result.Circuits, err
}

// Race returns the simulation for one round.
func (c *Client) Race(ctx context.Context, round, iterations int) (model.RacePrediction, error) {
	var result model.RacePrediction
	err := c.Fetch(ctx, "/api/race/"+strconv.Itoa(round), iters(iterations), &result)
	return result, err
}

// Championship returns the projected season standings.
func (c *Client) Championship(ctx context.Context, iterations int) (model.ChampionshipPrediction, error) {
	var result model.ChampionshipPrediction
	err := c.Fetch(ctx, "/api/championship", iters(iterations), &result)
	return result, err
}

// Backtest validates the model against a past season. A report that
// carries an error field is returned as a *PayloadError.
func (c *Client) Backtest(ctx context.Context, iterations int) (model.BacktestReport, error) {
	const path = "/api/backtest"
	var result model.BacktestReport
	if err := c.Fetch(ctx, path, iters(iterations), &result); err != nil {
		return result, err
	}
	if msg := result.Error; msg != "" {
		return result, &PayloadError{Path: path, Message: msg}
	}
	if msg := result.Metrics.Error; msg != "" {
		return result, &PayloadError{Path: path, Message: msg}
	}
	return result, nil
}
