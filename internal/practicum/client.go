package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	logx "reviewbot/pkg/logx"
)

type Config struct {
	Token    string
	Endpoint string
	Timeout  time.Duration
}

// Client issues the windowed review-status query.
type Client struct {
	cfg  Config
	http *http.Client
	log  logx.Logger
}

func NewClient(cfg Config, log logx.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("practicum token is empty")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("invalid practicum endpoint %q", cfg.Endpoint)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// Fetch queries review statuses changed since from (unix seconds).
//
// All expected failures are returned as a *PollError; the raw payload is
// returned only for a 200 with a parseable JSON body.
func (c *Client) Fetch(ctx context.Context, from int64) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, &PollError{Kind: KindClientRequest, Err: err}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &PollError{Kind: KindClientRequest, Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.cfg.Token)

	c.log.Debug("querying review statuses", logx.Int64("from_date", from))

	resp, err := c.http.Do(req)
	if err != nil {
		// Connection failures and timeouts are transient by definition.
		return nil, &PollError{Kind: KindTransient, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &PollError{Kind: KindTransient, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, &PollError{
			Kind:       KindMalformedPayload,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("body is not valid JSON (%d bytes)", len(body)),
		}
	}
	return json.RawMessage(body), nil
}

func classifyStatus(code int) *PollError {
	err := fmt.Errorf("unexpected status: %s", http.StatusText(code))
	switch {
	case code == http.StatusTooManyRequests || code >= 500:
		return &PollError{Kind: KindTransient, StatusCode: code, Err: err}
	case code >= 400 && code < 500:
		return &PollError{Kind: KindClientRequest, StatusCode: code, Err: err}
	default:
		// 3xx after redirect exhaustion and anything else odd: the request
		// reached the server, so treat it as a request problem.
		return &PollError{Kind: KindClientRequest, StatusCode: code, Err: err}
	}
}
