// Package weather wraps the OpenWeatherMap 5-day/3-hour forecast API.
package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/forecast"

// ErrNotInForecast marks a requested date outside the forecast horizon
// (the free tier only covers about five days from now).
var ErrNotInForecast = errors.New("date not in forecast horizon")

// DayForecast is the forecast entry picked for a requested calendar day.
type DayForecast struct {
	Condition   string  // e.g. "Rain", "Clear"
	Temperature float64 // Celsius
	Description string  // e.g. "light rain"
}

// Client fetches forecasts for a fixed city in metric units.
type Client struct {
	apiKey     string
	city       string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a forecast client. apiKey may be empty; calls then fail
// and the caller is expected to degrade gracefully.
func NewClient(apiKey, city string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		city:       city,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Forecast returns the first forecast entry falling on the given calendar
// date (YYYY-MM-DD). Returns ErrNotInForecast when the date is outside the
// horizon covered by the API response.
func (c *Client) Forecast(ctx context.Context, date string) (*DayForecast, error) {
	target, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid date %q", date)
	}

	q := url.Values{}
	q.Set("q", c.city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "weather request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var apiResp struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.Wrap(err, "failed to decode weather response")
	}

	want := target.Format("2006-01-02")
	for _, item := range apiResp.List {
		if time.Unix(item.Dt, 0).UTC().Format("2006-01-02") != want {
			continue
		}
		if len(item.Weather) == 0 {
			continue
		}
		return &DayForecast{
			Condition:   item.Weather[0].Main,
			Temperature: item.Main.Temp,
			Description: item.Weather[0].Description,
		}, nil
	}
	return nil, ErrNotInForecast
}
