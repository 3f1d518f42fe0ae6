package route

import (
	"net/url"
	"testing"
)

func TestReplaceQueryAddsNoHistoryEntry(t *testing.T) {
	router := NewMemoryRouter()
	router.SetQuery(url.Values{"tab": {"wallet"}, "payment_success": {"1"}})
	if router.HistoryLength() != 1 {
		t.Fatalf("expected one history entry, got %d", router.HistoryLength())
	}

	router.ReplaceQuery(url.Values{"tab": {"wallet"}})
	if router.HistoryLength() != 1 {
		t.Errorf("replace must not add history, got %d entries", router.HistoryLength())
	}
	if got := router.Query().Get("payment_success"); got != "" {
		t.Errorf("expected the parameter stripped, got %q", got)
	}
}

func TestQueryReturnsACopy(t *testing.T) {
	router := NewMemoryRouter()
	router.SetQuery(url.Values{"tab": {"wallet"}})

	query := router.Query()
	query.Set("tab", "profile")

	if got := router.Query().Get("tab"); got != "wallet" {
		t.Errorf("mutating the returned values must not leak back, got %q", got)
	}
}

func TestNavigationsAreRecordedInOrder(t *testing.T) {
	router := NewMemoryRouter()
	if router.LastNavigation() != "" {
		t.Error("expected no navigation yet")
	}

	router.Navigate("http://pay.test/checkout?transaction_id=a")
	router.Navigate("http://pay.test/checkout?transaction_id=b")

	if got := router.LastNavigation(); got != "http://pay.test/checkout?transaction_id=b" {
		t.Errorf("unexpected last navigation %q", got)
	}
	if all := router.Navigations(); len(all) != 2 {
		t.Errorf("expected two recorded navigations, got %v", all)
	}
}
