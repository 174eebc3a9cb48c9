package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// SyncClient is the HTTP client adapters use to talk to external
// systems. Transient failures are retried per the connection's
// RetryPolicy with exponential backoff.
type SyncClient struct {
	client *retryablehttp.Client
	logger *logging.Logger
}

// NewSyncClient builds a client honoring the given retry policy.
func NewSyncClient(policy RetryPolicy, logger *logging.Logger) *SyncClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = policy.MaxAttempts - 1
	rc.RetryWaitMin = policy.InitialBackoff
	rc.RetryWaitMax = policy.MaxBackoff
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &SyncClient{
		client: rc,
		logger: logger.Named("sync-client"),
	}
}

// Do sends one authenticated request on behalf of a connection and
// returns the response body. Non-2xx statuses are errors.
func (c *SyncClient) Do(ctx context.Context, conn *Connection, method, url string, body io.Reader) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building sync request: %w", err)
	}
	if err := applyCredentials(req, conn.Credentials); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync request to %s: %w", conn.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading sync response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("sync request failed",
			zap.String("connection", conn.Name),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("sync request to %s returned %d", conn.Name, resp.StatusCode)
	}
	return data, nil
}

func applyCredentials(req *retryablehttp.Request, creds Credentials) error {
	switch creds.Type {
	case CredAPIKey:
		if creds.APIKey == nil {
			return fmt.Errorf("api_key credentials missing variant")
		}
		header := creds.APIKey.Header
		if header == "" {
			header = "Authorization"
			req.Header.Set(header, "Bearer "+creds.APIKey.Key)
			return nil
		}
		req.Header.Set(header, creds.APIKey.Key)
	case CredOAuth2:
		if creds.OAuth2 == nil || creds.OAuth2.AccessToken == "" {
			return fmt.Errorf("oauth2 credentials missing access token")
		}
		req.Header.Set("Authorization", "Bearer "+creds.OAuth2.AccessToken)
	case CredBasic:
		if creds.Basic == nil {
			return fmt.Errorf("basic credentials missing variant")
		}
		req.SetBasicAuth(creds.Basic.Username, creds.Basic.Password)
	case CredCustom:
		if creds.Custom == nil {
			return fmt.Errorf("custom credentials missing variant")
		}
		for k, v := range creds.Custom.Fields {
			req.Header.Set(k, v)
		}
	default:
		return fmt.Errorf("unknown credential type %q", creds.Type)
	}
	return nil
}

// StandardClient exposes the underlying retrying http.Client for
// adapters that need to pass one to an SDK.
func (c *SyncClient) StandardClient() *http.Client {
	return c.client.StandardClient()
}
