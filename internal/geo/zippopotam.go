package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/staffmatch/staffmatch/internal/util"
	"go.uber.org/zap"
)

const (
	defaultZippopotamURL = "https://api.zippopotam.us"
	defaultCountry       = "fr"

	contentType = "application/json"
	userAgent   = "staffmatch-geocoder"
)

// ZippopotamClient looks postal codes up against the zippopotam.us API (or a
// compatible deployment). It implements Provider.
type ZippopotamClient struct {
	APIURL     string
	Country    string
	HTTPClient *http.Client
	UserAgent  string
	// MinInterval spaces provider requests out; public deployments throttle
	// aggressive clients.
	MinInterval time.Duration

	logger      *zap.Logger
	mu          sync.Mutex
	lastRequest time.Time
}

func NewZippopotamClient(logger *zap.Logger, apiURL, country string) *ZippopotamClient {
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultZippopotamURL
	}
	if strings.TrimSpace(country) == "" {
		country = defaultCountry
	}
	return &ZippopotamClient{
		APIURL:  strings.TrimRight(apiURL, "/"),
		Country: country,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
		logger:    logger,
	}
}

type zippopotamResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// Lookup resolves one postal code. A 404 from the provider means the code has
// no entry and is reported as not found, not as an error.
func (c *ZippopotamClient) Lookup(ctx context.Context, code string) (Result, error) {
	if err := c.waitRateLimit(ctx); err != nil {
		return Result{}, err
	}

	url := fmt.Sprintf("%s/%s/%s", c.APIURL, c.Country, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}
	c.setHeaders(req)

	if c.logger != nil {
		c.logger.Debug("make geocode request", zap.String("url", req.URL.String()))
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{Found: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("bad status: %s", resp.Status)
	}

	var payload zippopotamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, err
	}
	if len(payload.Places) == 0 {
		return Result{Found: false}, nil
	}

	lat, err := strconv.ParseFloat(payload.Places[0].Latitude, 64)
	if err != nil {
		return Result{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(payload.Places[0].Longitude, 64)
	if err != nil {
		return Result{}, fmt.Errorf("parse longitude: %w", err)
	}

	return Result{Coordinates: &Coordinates{Lat: lat, Lon: lon}, Found: true}, nil
}

// waitRateLimit reserves the next request slot and waits for it. Slots are
// handed out under the mutex so concurrent lookups stay MinInterval apart.
func (c *ZippopotamClient) waitRateLimit(ctx context.Context) error {
	if c.MinInterval <= 0 {
		return nil
	}

	c.mu.Lock()
	now := time.Now()
	next := c.lastRequest.Add(c.MinInterval)
	if next.Before(now) {
		next = now
	}
	c.lastRequest = next
	c.mu.Unlock()

	return util.WaitFor(ctx, time.Until(next))
}

func (c *ZippopotamClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", contentType)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}
