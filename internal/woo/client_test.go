package woo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"linguaops/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	cfg, _ := config.Load()
	cfg.WooBaseURL = "https://shop.example.test"
	cfg.WooConsumerKey = "ck"
	cfg.WooConsumerSecret = "cs"
	cfg.WooRateLimitRPS = 1000
	return cfg
}

func TestListOrderIDsPaginatesWithRetry(t *testing.T) {
	attempt := 0

	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/wp-json/wc/v3/orders" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			attempt++
			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusServiceUnavailable,
					Body:       io.NopCloser(strings.NewReader(`{"error":"maintenance"}`)),
					Header:     make(http.Header),
				}, nil
			}

			page := r.URL.Query().Get("page")
			rows := []map[string]any{{"id": 4821}, {"id": 4820}}
			if page == "2" {
				rows = []map[string]any{{"id": 4819}}
			}
			blob, _ := json.Marshal(rows)
			header := make(http.Header)
			header.Set("X-WP-TotalPages", "2")
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(blob))),
				Header:     header,
			}, nil
		}),
	}

	ids, err := client.ListOrderIDs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != 4821 || ids[2] != 4819 {
		t.Fatalf("ids=%v", ids)
	}
}

func TestGetOrderDecodesMetaData(t *testing.T) {
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/wp-json/wc/v3/orders/4821" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if user, pass, ok := r.BasicAuth(); !ok || user != "ck" || pass != "cs" {
				t.Fatalf("missing basic auth")
			}
			body := `{
				"id": 4821, "number": "4821", "total": "179.00",
				"billing": {"first_name": "Hans", "last_name": "Meier"},
				"meta_data": [{"key": "prüfungsteil", "value": "Nur Mündlich"}],
				"line_items": [{"name": "telc B1", "sku": "telc-b1"}]
			}`
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	order, err := client.GetOrder(context.Background(), 4821)
	if err != nil {
		t.Fatal(err)
	}
	if order.Number != "4821" || order.Billing.LastName != "Meier" {
		t.Fatalf("order=%+v", order)
	}
	if len(order.MetaData) != 1 || order.MetaData[0].Key != "prüfungsteil" {
		t.Fatalf("meta=%+v", order.MetaData)
	}
}

func TestListOrderIDsAbortsOnFailedPage(t *testing.T) {
	attempt := 0
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			attempt++
			return &http.Response{
				StatusCode: http.StatusForbidden,
				Body:       io.NopCloser(strings.NewReader(`{"code":"rest_forbidden"}`)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	if _, err := client.ListOrderIDs(context.Background()); err == nil {
		t.Fatal("expected error on failed page")
	}
	if attempt != 1 {
		t.Fatalf("non-retryable status should not be retried, attempts=%d", attempt)
	}
}
