// Copyright (c) 2025 BVK Chaitanya

// Package bootybay fetches historical auction-house price statistics
// from the Booty Bay Gazette web API. The API sits behind a Battle.net
// login, so a browser performs the login once and hands its cookies to
// a plain HTTP client for the per-item fetches.
package bootybay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ErrCaptcha is returned when the API serves a captcha page instead of
// item data; the session needs a manual browser visit.
var ErrCaptcha = fmt.Errorf("market source wants a captcha solved")

// Stats is the API response for one item.
type Stats struct {
	// History holds snapshot series; the first series is the fortnight
	// of hourly scans.
	History [][]HistoryPoint `json:"history"`

	// Daily is the long-term daily summary.
	Daily []DailyPoint `json:"daily"`

	Auctions struct {
		Data []AuctionEntry `json:"data"`
	} `json:"auctions"`
}

// HistoryPoint is one scan observation. Prices are copper.
type HistoryPoint struct {
	Snapshot int64 `json:"snapshot"`
	Silver   int64 `json:"silver"`
	Quantity int64 `json:"quantity"`
}

func (p HistoryPoint) Time() time.Time {
	return time.Unix(p.Snapshot, 0).UTC()
}

// DailyPoint is one day's summary observation.
type DailyPoint struct {
	Date     string `json:"date"`
	Silver   int64  `json:"silver"`
	Quantity int64  `json:"quantity"`
}

// AuctionEntry is one live listing as the API sees it.
type AuctionEntry struct {
	Quantity   int64  `json:"quantity"`
	Buy        int64  `json:"buy"`
	SellerName string `json:"sellername"`
}

// Client talks to the item stats API. Requests are rate limited; the
// site bans sessions that hammer it.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	realm   string
}

// NewClient creates a client for one realm slug, e.g. "grobbulus-a".
func NewClient(baseURL, realm string, perMinute int) *Client {
	hc := resty.New()
	hc.SetBaseURL(strings.TrimRight(baseURL, "/"))
	hc.SetTimeout(30 * time.Second)
	return &Client{
		http:    hc,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		realm:   realm,
	}
}

// SetCookies installs the browser session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.http.SetCookies(cookies)
}

// ItemStats fetches the statistics for one item id.
func (c *Client) ItemStats(ctx context.Context, id int64) (*Stats, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("could not wait for rate limiter: %w", err)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("house", c.realm).
		SetQueryParam("item", fmt.Sprintf("%d", id)).
		Get("/api/item.php")
	if err != nil {
		return nil, fmt.Errorf("could not fetch item %d: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("item %d fetch returned status %s", id, resp.Status())
	}
	body := resp.Body()
	if strings.Contains(strings.ToLower(string(body)), "captcha") {
		return nil, fmt.Errorf("item %d: %w", id, ErrCaptcha)
	}
	stats := new(Stats)
	if err := json.Unmarshal(body, stats); err != nil {
		return nil, fmt.Errorf("could not parse item %d response: %w", id, err)
	}
	return stats, nil
}

// Fortnight returns the short-term scan series, which drives the price
// prediction.
func (s *Stats) Fortnight() []HistoryPoint {
	if len(s.History) == 0 {
		return nil
	}
	return s.History[0]
}

// ListedQuantity sums the live listing volumes.
func (s *Stats) ListedQuantity() int64 {
	var total int64
	for _, a := range s.Auctions.Data {
		total += a.Quantity
	}
	return total
}
