package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShowItem(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, map[string]string{
		"/item_by_counter/42": `{"err": 0, "result": {"itemId": 900}}`,
		"/item/900/":          `{"err": 0, "result": {"id": 900, "project_id": 1, "counter": 42, "title": "title fallback", "status": "active", "environment": "staging"}}`,
		"/item/900/instances": `{"err": 0, "result": {"instances": [{"id": 7, "timestamp": 1700000000, "data": {"body": {"trace": {"exception": {"class": "KeyError", "message": "'user_id'"}}}}}]}}`,
		"/item_by_counter/43": `{"err": 0, "result": {"itemId": 901}}`,
		"/item/901/":          `{"err": 0, "result": {"id": 901, "project_id": 1, "counter": 43, "title": "never happened", "status": "resolved"}}`,
		"/item/901/instances": `{"err": 0, "result": []}`,
		"/item_by_counter/44": `{"err": 0, "result": {"itemId": 902}}`,
		"/item/902/":          `{"err": 0}`,
	})
	c := newTestClient(t, server)

	t.Run("with instance", func(t *testing.T) {
		t.Parallel()

		detail, err := c.ShowItem(context.Background(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if detail.Item.ID != 900 {
			t.Errorf("expected item id=900, got %d", detail.Item.ID)
		}

		if detail.Instance == nil || detail.Instance.ID != 7 {
			t.Fatalf("expected instance 7, got %+v", detail.Instance)
		}

		if detail.MainError != "'user_id'" {
			t.Errorf("expected main error from the trace, got %q", detail.MainError)
		}
	})

	t.Run("without instance", func(t *testing.T) {
		t.Parallel()

		detail, err := c.ShowItem(context.Background(), 43)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if detail.Instance != nil {
			t.Errorf("expected no instance, got %+v", detail.Instance)
		}

		if detail.MainError != "never happened" {
			t.Errorf("expected title as main error, got %q", detail.MainError)
		}
	})

	t.Run("propagates the failing step", func(t *testing.T) {
		t.Parallel()

		_, err := c.ShowItem(context.Background(), 44)
		if !errors.Is(err, ErrMissingResult) {
			t.Fatalf("expected ErrMissingResult, got %v", err)
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Op != "item" {
			t.Errorf("expected failure tagged with op=item, got %v", err)
		}

		if !strings.HasPrefix(err.Error(), "get item: ") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestResolveItemIDs(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}

		var counter int
		if _, err := fmt.Sscanf(r.URL.Path, "/item_by_counter/%d", &counter); err != nil {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprintf(w, `{"err": 0, "result": {"itemId": %d}}`, counter*1000)
	}))
	defer server.Close()

	c := newTestClient(t, server, WithConcurrency(2))

	counters := []Counter{5, 1, 4, 2, 3, 9, 7}
	ids, err := c.ResolveItemIDs(context.Background(), counters...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ItemID{5000, 1000, 4000, 2000, 3000, 9000, 7000}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent requests, saw %d", peak.Load())
	}
}

func TestResolveItemIDs_Failure(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, map[string]string{
		"/item_by_counter/1": `{"err": 0, "result": {"itemId": 10}}`,
		"/item_by_counter/2": `{"err": 1, "message": "Item not found"}`,
	})
	c := newTestClient(t, server)

	ids, err := c.ResolveItemIDs(context.Background(), 1, 2)
	if err == nil {
		t.Fatal("expected error")
	}

	if ids != nil {
		t.Errorf("expected no ids on failure, got %v", ids)
	}

	if !errors.Is(err, ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}

	if !strings.Contains(err.Error(), "resolve counter 2") {
		t.Errorf("expected failing counter in error, got %v", err)
	}
}

func TestResolveItemIDs_Empty(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, newTestServer(t, nil))

	ids, err := c.ResolveItemIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
}
