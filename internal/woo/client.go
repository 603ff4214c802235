package woo

import (
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

	"linguaops/internal"
	"linguaops/internal/config"
)

const perPage = 100

// Client talks to the WooCommerce REST API (wc/v3). Pagination state
// lives in the X-WP-TotalPages response header.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.WooTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.WooRateLimitRPS),
	}
}

// ListOrderIDs collects every order ID, newest first. Any failed page
// aborts the whole listing; a partial ID set is not trustworthy for
// reconciliation.
func (c *Client) ListOrderIDs(ctx context.Context) ([]int, error) {
	ids := make([]int, 0, perPage)
	page := 1
	for {
		body, totalPages, err := c.fetchJSON(ctx, "orders", map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(perPage),
			"orderby":  "id",
			"order":    "desc",
			"_fields":  "id",
		})
		if err != nil {
			return nil, fmt.Errorf("order id page %d: %w", page, err)
		}

		var rows []struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("order id page %d: %w", page, err)
		}
		for _, row := range rows {
			ids = append(ids, row.ID)
		}

		if len(rows) == 0 || (totalPages > 0 && page >= totalPages) {
			break
		}
		page++
	}
	return ids, nil
}

func (c *Client) GetOrder(ctx context.Context, id int) (internal.Order, error) {
	body, _, err := c.fetchJSON(ctx, "orders/"+strconv.Itoa(id), nil)
	if err != nil {
		return internal.Order{}, err
	}
	var order internal.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return internal.Order{}, err
	}
	return order, nil
}

// ListRecentOrders fetches the most recent window of full orders, used
// as the candidate pool for bank-statement matching.
func (c *Client) ListRecentOrders(ctx context.Context, limit int) ([]internal.Order, error) {
	if limit <= 0 {
		limit = perPage
	}
	orders := make([]internal.Order, 0, limit)
	page := 1
	for len(orders) < limit {
		size := perPage
		if remaining := limit - len(orders); remaining < size {
			size = remaining
		}
		body, totalPages, err := c.fetchJSON(ctx, "orders", map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(size),
			"orderby":  "date",
			"order":    "desc",
		})
		if err != nil {
			return nil, fmt.Errorf("recent orders page %d: %w", page, err)
		}

		var rows []internal.Order
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("recent orders page %d: %w", page, err)
		}
		orders = append(orders, rows...)

		if len(rows) == 0 || (totalPages > 0 && page >= totalPages) {
			break
		}
		page++
	}
	return orders, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, int, error) {
	if strings.TrimSpace(c.cfg.WooBaseURL) == "" {
		return nil, 0, errors.New("missing WOO_BASE_URL")
	}

	baseURL := strings.TrimRight(c.cfg.WooBaseURL, "/") + "/wp-json/wc/v3/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, 0, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, 0, err
		}
		req.SetBasicAuth(c.cfg.WooConsumerKey, c.cfg.WooConsumerSecret)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("woo status %d", resp.StatusCode)
				continue
			}
			return nil, 0, fmt.Errorf("woo api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		totalPages, _ := strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))
		return body, totalPages, nil
	}

	if lastErr == nil {
		lastErr = errors.New("woo request failed")
	}
	return nil, 0, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
