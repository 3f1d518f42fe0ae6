package route

import (
	"net/url"
	"sync"

	"github.com/tradeforge/accountsync/internal/models"
)

// MemoryRouter simulates the page's address bar in process. The demo command
// and the package tests drive it in place of a real navigation system.
type MemoryRouter struct {
	mu          sync.Mutex
	query       url.Values
	history     int
	navigations []string
}

func NewMemoryRouter() *MemoryRouter {
	return &MemoryRouter{query: url.Values{}}
}

// Query returns a copy of the current query parameters.
func (r *MemoryRouter) Query() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneValues(r.query)
}

// SetQuery simulates arriving at the page with the given parameters,
// adding a history entry.
func (r *MemoryRouter) SetQuery(values url.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = cloneValues(values)
	r.history++
}

// ReplaceQuery swaps the parameters in place without a history entry.
func (r *MemoryRouter) ReplaceQuery(values url.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = cloneValues(values)
}

// Navigate records a full-page navigation target.
func (r *MemoryRouter) Navigate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, target)
}

// HistoryLength reports how many history entries were added.
func (r *MemoryRouter) HistoryLength() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history
}

// LastNavigation returns the most recent full-page navigation target.
func (r *MemoryRouter) LastNavigation() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.navigations) == 0 {
		return ""
	}
	return r.navigations[len(r.navigations)-1]
}

// Navigations returns every recorded full-page navigation target.
func (r *MemoryRouter) Navigations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.navigations...)
}

func cloneValues(values url.Values) url.Values {
	clone := make(url.Values, len(values))
	for key, list := range values {
		clone[key] = append([]string(nil), list...)
	}
	return clone
}

var _ models.Router = (*MemoryRouter)(nil)
