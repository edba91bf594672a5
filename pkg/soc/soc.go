// Package soc is the client for the university's public schedule-of-classes
// API. The feed is read-only, occasionally unavailable, and loosely shaped;
// every call is timeout-bounded and transport failures surface as
// contract.ErrSourceUnavailable so callers can fall back to cached data.
package soc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coursepilot/coursepilot/advisor/catalog"
	contractx "github.com/coursepilot/coursepilot/advisor/contract"
)

type Config struct {
	BaseURL   string        `split_words:"true" default:"https://web-app.usc.edu/web/soc/api"`
	UserAgent string        `split_words:"true" default:"coursepilot/1.0"`
	Timeout   time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ catalog.Source = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("schedule-of-classes base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: strings.TrimSpace(cfg.UserAgent),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Department fetches every offered course of one department for a term.
func (c *Client) Department(ctx context.Context, dept string, term catalog.TermCode) ([]*catalog.Course, error) {
	var payload classesResponse
	path := fmt.Sprintf("/classes/%s/%s", url.PathEscape(dept), url.PathEscape(term.String()))
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	courses := mapCourses(payload, term)
	log.Debug().Str("department", dept).Str("term", term.String()).Int("courses", len(courses)).Msg("fetched department")
	return courses, nil
}

// Departments fetches the department directory for a term.
func (c *Client) Departments(ctx context.Context, term catalog.TermCode) ([]catalog.Department, error) {
	var payload deptsResponse
	path := fmt.Sprintf("/depts/%s", url.PathEscape(term.String()))
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}
	return mapDepartments(payload), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", contractx.ErrSourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: upstream status %d", contractx.ErrSourceUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", contractx.ErrSourceUnavailable, err)
	}
	return nil
}
