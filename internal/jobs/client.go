package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	apiURL     = "https://jsearch.p.rapidapi.com"
	apiHost    = "jsearch.p.rapidapi.com"
	searchPath = "/search"
)

// Searcher retrieves candidate listings for a query. Implemented by Client
// and stubbed in tests.
type Searcher interface {
	Search(ctx context.Context, query, location string, page int) ([]*Listing, error)
}

// Client talks to the JSearch API.
type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	APIHost    string
}

func NewClient(apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey: apiKey,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		APIURL:  apiURL,
		APIHost: apiHost,
	}
}

// searchResponse is the raw API envelope. Items are decoded loosely and then
// mapped into typed listings, since the upstream schema drifts.
type searchResponse struct {
	Data []map[string]any `json:"data"`
}

type rawListing struct {
	Title       string  `json:"job_title"`
	Employer    string  `json:"employer_name"`
	City        string  `json:"job_city"`
	Country     string  `json:"job_country"`
	Description string  `json:"job_description"`
	ApplyLink   string  `json:"job_apply_link"`
	MinSalary   float64 `json:"job_min_salary"`
	MaxSalary   float64 `json:"job_max_salary"`
}

func (c *Client) Search(ctx context.Context, query, location string, page int) ([]*Listing, error) {
	q := url.Values{}
	searchQuery := query
	if location != "" {
		searchQuery = fmt.Sprintf("%s in %s", query, location)
	}
	q.Set("query", searchQuery)
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("num_pages", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+searchPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.APIHost)
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("job search request", zap.String("query", searchQuery), zap.Int("page", page))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	var raw []rawListing
	cfg := &mapstructure.DecoderConfig{
		Result:           &raw,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(response.Data); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	listings := make([]*Listing, 0, len(raw))
	for _, item := range raw {
		listings = append(listings, &Listing{
			Title:       item.Title,
			Company:     item.Employer,
			Location:    joinLocation(item.City, item.Country),
			Description: item.Description,
			URL:         item.ApplyLink,
			Source:      "jsearch",
			SalaryMin:   item.MinSalary,
			SalaryMax:   item.MaxSalary,
		})
	}

	c.logger.Debug("job search response", zap.Int("count", len(listings)))

	return listings, nil
}

func joinLocation(city, country string) string {
	parts := []string{}
	for _, part := range []string{city, country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
