package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type staticResolver string

func (s staticResolver) Resolve(ctx context.Context) string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, staticResolver("11111111-2222-3333-4444-555555555555"), 5*time.Second, zerolog.Nop())
	return c, srv
}

func TestFetchDecodesSuccessfulOrder(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/order_info" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "jo@example.com" {
			t.Errorf("email query = %q", got)
		}
		if got := r.URL.Query().Get("order_number"); got != "SO-1001" {
			t.Errorf("order_number query = %q", got)
		}
		if got := r.Header.Get("Api-Key"); got != "11111111-2222-3333-4444-555555555555" {
			t.Errorf("Api-Key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": 0,
			"msg": "ok",
			"data": {"reOrder": {
				"order_number": "SO-1001",
				"tracking_number": "1Z999",
				"line_items": [
					{"quantity": 2, "current_quantity": 2, "fulfilled_quantity": 2, "is_core_product": true}
				]
			}}
		}`))
	})

	order, err := c.Fetch(context.Background(), "jo@example.com", "SO-1001")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if order.OrderNumber != "SO-1001" || order.TrackingNumber != "1Z999" {
		t.Fatalf("unexpected order payload: %+v", order)
	}
	if len(order.LineItems) != 1 || !order.LineItems[0].IsCoreProduct {
		t.Fatalf("unexpected line items: %+v", order.LineItems)
	}
}

func TestFetchMapsNonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Fetch(context.Background(), "jo@example.com", "SO-1001")
	var statusErr *UpstreamStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Fetch() error = %v, want *UpstreamStatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", statusErr.StatusCode)
	}
	if statusErr.Error() != "API returned 502" {
		t.Fatalf("error message = %q", statusErr.Error())
	}
}

func TestFetchMapsUpstreamRejectionWithMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 404, "msg": "no order matches", "data": {}}`))
	})

	_, err := c.Fetch(context.Background(), "jo@example.com", "SO-404")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Fetch() error = %v, want *NotFoundError", err)
	}
	if nf.Error() != "no order matches" {
		t.Fatalf("error message = %q, want upstream msg", nf.Error())
	}
}

func TestFetchMapsMissingPayloadToGenericNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 0, "msg": "", "data": {}}`))
	})

	_, err := c.Fetch(context.Background(), "jo@example.com", "SO-1001")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Fetch() error = %v, want *NotFoundError", err)
	}
	if nf.Error() != "Order not found" {
		t.Fatalf("error message = %q, want generic not-found", nf.Error())
	}
}

func TestFetchWrapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := NewClient(srv.URL, staticResolver("k"), time.Second, zerolog.Nop())

	_, err := c.Fetch(context.Background(), "jo@example.com", "SO-1001")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var statusErr *UpstreamStatusError
	var nf *NotFoundError
	if errors.As(err, &statusErr) || errors.As(err, &nf) {
		t.Fatalf("transport failure mapped to wrong taxonomy: %v", err)
	}
}
