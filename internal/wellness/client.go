package wellness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
)

var (
	// ErrUnavailable indicates the wellness service is unreachable.
	ErrUnavailable = errors.New("wellness service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("wellness request timed out")
)

// Client provides the day's energy context from the wellness collaborator.
type Client interface {
	// Context returns the energy context for the given date.
	Context(ctx context.Context, date time.Time) (domain.EnergyContext, error)

	// Available checks whether the wellness service is reachable.
	Available(ctx context.Context) bool
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client that talks to the wellness HTTP API.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// contextResponse is the JSON body returned by GET /context.
type contextResponse struct {
	EnergyPercentage     int    `json:"energy_percentage"`
	CyclePhase           string `json:"cycle_phase"`
	RecommendedBufferMin int    `json:"recommended_buffer_min"`
}

func (c *httpClient) Context(ctx context.Context, date time.Time) (domain.EnergyContext, error) {
	start := time.Now()
	dateStr := date.Format("2006-01-02")

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	resp, err := c.doRequest(ctx, dateStr)
	latency := time.Since(start).Milliseconds()
	if err == nil {
		c.observer.OnCallComplete(CallEvent{Date: dateStr, LatencyMs: latency, Success: true})
		return domain.EnergyContext{
			EnergyPercentage:     resp.EnergyPercentage,
			CyclePhase:           resp.CyclePhase,
			RecommendedBufferMin: resp.RecommendedBufferMin,
		}, nil
	}

	c.observer.OnCallComplete(CallEvent{
		Date: dateStr, LatencyMs: latency, Success: false, ErrorCode: errorCode(err, ctx),
	})
	if ctx.Err() != nil {
		return domain.EnergyContext{}, ErrTimeout
	}
	if isConnectionError(err) {
		return domain.EnergyContext{}, ErrUnavailable
	}
	return domain.EnergyContext{}, err
}

func (c *httpClient) doRequest(ctx context.Context, dateStr string) (*contextResponse, error) {
	url := c.cfg.Endpoint + "/context?date=" + dateStr
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wellness service returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp contextResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func errorCode(err error, ctx context.Context) string {
	switch {
	case ctx.Err() != nil:
		return "timeout"
	case isConnectionError(err):
		return "unavailable"
	default:
		return "request_failed"
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

// StaticClient always answers with a fixed context. Useful for tests and for
// running with the wellness integration disabled.
type StaticClient struct {
	Energy domain.EnergyContext
}

func (s StaticClient) Context(context.Context, time.Time) (domain.EnergyContext, error) {
	return s.Energy, nil
}

func (s StaticClient) Available(context.Context) bool { return true }
