// Package geodata talks to the external lookup services backing the
// cascading country/state/city selects and the map address pick. Failures
// are reported as errors; callers degrade to empty option lists.
package geodata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultCountriesBaseURL = "https://countriesnow.space/api/v0.1"
	DefaultReverseGeoURL    = "https://nominatim.openstreetmap.org/reverse"

	// nominatim's usage policy rejects requests without an identifying
	// User-Agent, so every lookup sends one.
	userAgent = "onboard/1.0 (github.com/khudpay/onboard)"
)

// Client queries the countriesnow.space lookup API and the nominatim
// reverse-geocoding service.
type Client struct {
	CountriesBaseURL string
	ReverseGeoURL    string
	HTTPClient       *http.Client
}

func NewClient() *Client {
	return &Client{
		CountriesBaseURL: DefaultCountriesBaseURL,
		ReverseGeoURL:    DefaultReverseGeoURL,
		HTTPClient:       &http.Client{Timeout: 10 * time.Second},
	}
}

type countriesResponse struct {
	Error bool   `json:"error"`
	Msg   string `json:"msg"`
	Data  []struct {
		Country string `json:"country"`
	} `json:"data"`
}

type statesRequest struct {
	Country string `json:"country"`
}

type statesResponse struct {
	Error bool   `json:"error"`
	Msg   string `json:"msg"`
	Data  struct {
		Name   string `json:"name"`
		States []struct {
			Name string `json:"name"`
		} `json:"states"`
	} `json:"data"`
}

type citiesRequest struct {
	Country string `json:"country"`
	State   string `json:"state"`
}

type citiesResponse struct {
	Error bool     `json:"error"`
	Msg   string   `json:"msg"`
	Data  []string `json:"data"`
}

type reverseGeoResponse struct {
	DisplayName string `json:"display_name"`
}

// Countries returns the country option list.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	var out countriesResponse
	if err := c.get(ctx, c.CountriesBaseURL+"/countries", &out); err != nil {
		return nil, err
	}
	if out.Error {
		return nil, fmt.Errorf("country lookup failed: %s", out.Msg)
	}
	countries := make([]string, 0, len(out.Data))
	for _, entry := range out.Data {
		countries = append(countries, entry.Country)
	}
	return countries, nil
}

// States returns the state option list for a country.
func (c *Client) States(ctx context.Context, country string) ([]string, error) {
	var out statesResponse
	if err := c.post(ctx, c.CountriesBaseURL+"/countries/states", statesRequest{Country: country}, &out); err != nil {
		return nil, err
	}
	if out.Error {
		return nil, fmt.Errorf("state lookup failed: %s", out.Msg)
	}
	states := make([]string, 0, len(out.Data.States))
	for _, s := range out.Data.States {
		states = append(states, s.Name)
	}
	return states, nil
}

// Cities returns the city option list for a (country, state) pair.
func (c *Client) Cities(ctx context.Context, country, state string) ([]string, error) {
	var out citiesResponse
	if err := c.post(ctx, c.CountriesBaseURL+"/countries/state/cities", citiesRequest{Country: country, State: state}, &out); err != nil {
		return nil, err
	}
	if out.Error {
		return nil, fmt.Errorf("city lookup failed: %s", out.Msg)
	}
	return out.Data, nil
}

// ReverseGeocode resolves a coordinate pair to a human-readable address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{
		"format": {"json"},
		"lat":    {fmt.Sprintf("%f", lat)},
		"lon":    {fmt.Sprintf("%f", lon)},
	}
	var out reverseGeoResponse
	if err := c.get(ctx, c.ReverseGeoURL+"?"+q.Encode(), &out); err != nil {
		return "", err
	}
	return out.DisplayName, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, rawURL string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("lookup request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("lookup request failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode lookup response: %v", err)
	}
	return nil
}
