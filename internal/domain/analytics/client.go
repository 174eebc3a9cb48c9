package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/resilience"
	"go.uber.org/zap"
)

// ScoreRequest is the scoring service's input: one feature row per
// entity to score.
type ScoreRequest struct {
	Input []map[string]float64 `json:"input"`
}

// WinProbability is the win-probability endpoint's response.
type WinProbability struct {
	WinProbability float64 `json:"winProbability"`
	Confidence     float64 `json:"confidence"`
}

// RiskScore is the risk-scoring endpoint's response.
type RiskScore struct {
	RiskScore  float64  `json:"riskScore"`
	Confidence float64  `json:"confidence"`
	Factors    []string `json:"factors,omitempty"`
}

// ScoringClient talks to the ML scoring service over HTTP. Calls run
// through a circuit breaker so a down service fails fast instead of
// piling up timeouts.
type ScoringClient struct {
	resty   *resty.Client
	breaker *resilience.Breaker
	logger  *logging.Logger
}

// NewScoringClient creates a client for the scoring service at baseURL.
func NewScoringClient(baseURL string, logger *logging.Logger) *ScoringClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &ScoringClient{
		resty: rc,
		breaker: resilience.New("ml-scoring", resilience.Settings{
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
		}),
		logger: logger.Named("scoring-client"),
	}
}

// WinProbability scores one opportunity feature row.
func (c *ScoringClient) WinProbability(ctx context.Context, features map[string]float64) (*WinProbability, error) {
	var out WinProbability
	if err := c.score(ctx, "/score/win_probability", features, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RiskScore scores one entity feature row.
func (c *ScoringClient) RiskScore(ctx context.Context, features map[string]float64) (*RiskScore, error) {
	var out RiskScore
	if err := c.score(ctx, "/score/risk_scoring", features, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ScoringClient) score(ctx context.Context, path string, features map[string]float64, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.resty.R().
			SetContext(ctx).
			SetBody(ScoreRequest{Input: []map[string]float64{features}}).
			SetResult(out).
			Post(path)
		if err != nil {
			return nil, fmt.Errorf("scoring request: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("scoring service returned %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		c.logger.Warn("scoring failed",
			zap.String("path", path),
			zap.String("breaker_state", c.breaker.State().String()),
			zap.Error(err),
		)
	}
	return err
}

// BreakerState exposes the circuit state for health reporting.
func (c *ScoringClient) BreakerState() resilience.State {
	return c.breaker.State()
}
