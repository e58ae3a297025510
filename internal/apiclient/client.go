package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"contacts-admin/internal/config"
	"contacts-admin/internal/models"
)

const (
	defaultPageSize  = 100
	maxFetchAttempts = 5
)

type Config struct {
	BaseURL      string
	RateLimitRPS int
	Timeout      time.Duration
	PageSize     int
	// Transport is the base round tripper under the auth layer; nil means
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the remote contacts API. It can stand in for the local
// repository as both import creator and export source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
	pageSize   int
	logger     *logrus.Logger
}

type apiResponse struct {
	Success    *bool           `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		HasMore bool `json:"has_more"`
	} `json:"pagination"`
}

func NewClient(cfg Config, tokens oauth2.TokenSource, logger *logrus.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/",
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &oauth2.Transport{Source: tokens, Base: base},
		},
		limiter:  NewRateLimiter(cfg.RateLimitRPS),
		pageSize: cfg.PageSize,
		logger:   logger,
	}
}

// NewFromConfig builds a client from application config.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *Client {
	return NewClient(Config{
		BaseURL:      cfg.ContactAPIBaseURL,
		RateLimitRPS: cfg.ContactAPIRateLimitRPS,
		Timeout:      cfg.ContactAPITimeout,
	}, TokenSourceFromConfig(ctx, cfg), logger)
}

// Create posts one record. A non-2xx answer carrying the API envelope is a
// rejected record; anything else that goes wrong is returned as an error.
// Creates are never retried.
func (c *Client) Create(ctx context.Context, record models.ContactRecord) (models.CreateResult, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return models.CreateResult{}, err
	}

	if err := c.limiter.WaitTurn(ctx); err != nil {
		return models.CreateResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"contacts", bytes.NewReader(payload))
	if err != nil {
		return models.CreateResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.CreateResult{}, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return models.CreateResult{}, err
	}

	var apiResp apiResponse
	hasEnvelope := json.Unmarshal(body, &apiResp) == nil && apiResp.Success != nil

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if hasEnvelope {
			return models.CreateResult{Success: false, Message: apiResp.message()}, nil
		}
		return models.CreateResult{}, fmt.Errorf("contacts api error: status=%d body=%s", resp.StatusCode, truncate(body, 200))
	}

	if !hasEnvelope {
		return models.CreateResult{Success: true}, nil
	}
	result := models.CreateResult{Success: *apiResp.Success, Message: apiResp.message()}
	var created struct {
		ID int `json:"id"`
	}
	if len(apiResp.Data) > 0 && json.Unmarshal(apiResp.Data, &created) == nil {
		result.ID = created.ID
	}
	return result, nil
}

// FetchAll pages through the contact listing until the API reports no more
// pages.
func (c *Client) FetchAll(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error) {
	all := make([]models.Contact, 0)

	for page := 1; ; page++ {
		params := map[string]string{
			"page":   strconv.Itoa(page),
			"limit":  strconv.Itoa(c.pageSize),
			"search": filter.Search,
		}
		if filter.CategoryID > 0 {
			params["category_id"] = strconv.Itoa(filter.CategoryID)
		}

		apiResp, err := c.fetchJSON(ctx, "contacts", params)
		if err != nil {
			return nil, err
		}

		var contacts []models.Contact
		if len(apiResp.Data) > 0 {
			if err := json.Unmarshal(apiResp.Data, &contacts); err != nil {
				return nil, fmt.Errorf("failed to decode contacts page %d: %w", page, err)
			}
		}
		all = append(all, contacts...)

		if len(contacts) == 0 || apiResp.Pagination == nil || !apiResp.Pagination.HasMore {
			break
		}
	}

	c.logger.WithFields(logrus.Fields{
		"count":       len(all),
		"search":      filter.Search,
		"category_id": filter.CategoryID,
	}).Debug("Fetched contacts from API")

	return all, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) (*apiResponse, error) {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxFetchAttempts {
				lastErr = fmt.Errorf("contacts api status %d", resp.StatusCode)
				c.logger.WithFields(logrus.Fields{
					"status":  resp.StatusCode,
					"attempt": attempt,
				}).Warn("Retrying contacts API request")
				if err := sleepContext(ctx, backoff(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("contacts api error: status=%d body=%s", resp.StatusCode, truncate(body, 200))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, fmt.Errorf("invalid contacts api response: %w", err)
		}
		if apiResp.Success != nil && !*apiResp.Success {
			return nil, fmt.Errorf("contacts api unsuccessful: %s", apiResp.message())
		}
		return &apiResp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("contacts api request failed")
	}
	return nil, lastErr
}

func (r *apiResponse) message() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
