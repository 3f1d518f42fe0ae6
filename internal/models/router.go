package models

import "net/url"

// Router abstracts the address bar of the surrounding page.
type Router interface {
	// Query returns the current query parameters.
	Query() url.Values

	// ReplaceQuery swaps the current query parameters in place, without
	// adding a history entry. Back/forward navigation must not resurrect
	// the replaced parameters.
	ReplaceQuery(values url.Values)

	// Navigate performs a full-page navigation to the given target,
	// leaving the application. Used for external processor redirects.
	Navigate(target string)
}
