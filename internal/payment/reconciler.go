package payment

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

// Query parameter names the payment processor encodes into the return URL.
const (
	ParamSuccess       = "payment_success"
	ParamError         = "payment_error"
	ParamErrorDetail   = "error"
	ParamTransactionID = "transaction_id"
)

// Error codes the processor encodes into the return URL.
const (
	CodeMissingParams       = "missing_params"
	CodeTransactionNotFound = "transaction_not_found"
	CodeAlreadyProcessed    = "already_processed"
	CodeVerifyFailed        = "verify_failed"
	CodeCancelled           = "cancelled"
)

var errorMessages = map[string]string{
	CodeMissingParams:       "The payment callback is missing required parameters",
	CodeTransactionNotFound: "The payment transaction could not be found",
	CodeAlreadyProcessed:    "This payment has already been processed",
	CodeVerifyFailed:        "Payment verification failed",
	CodeCancelled:           "The payment was cancelled",
}

const (
	genericErrorMessage = "The payment could not be completed"
	successMessage      = "Payment received, your balance has been updated"
)

// Outcome is the full effect of one callback payload: what to tell the user,
// what the query parameters must become, and whether the wallet needs a
// refresh. Resolve produces it; React applies it.
type Outcome struct {
	// Notice is the user feedback, nil for a no-op.
	Notice *models.Notice
	// Query holds the query parameters with the consumed ones stripped.
	Query url.Values
	// Changed reports whether parameters were consumed and the URL must be
	// replaced in place.
	Changed bool
	// RefreshWallet reports whether the wallet balance must be re-fetched.
	RefreshWallet bool
}

// Resolve maps the current query parameters to their outcome. Pure: it never
// touches the router, the notifier or the wallet, which keeps the decision
// table testable without a navigation system. A query without payment
// parameters resolves to a no-op, so consuming a payload is idempotent by
// construction.
func Resolve(query url.Values) Outcome {
	out := Outcome{Query: cloneValues(query)}

	if truthy(query.Get(ParamSuccess)) {
		out.Notice = &models.Notice{Message: successMessage, Kind: models.NoticeSuccess}
		out.Query.Del(ParamSuccess)
		out.Query.Del(ParamTransactionID)
		out.Changed = true
		out.RefreshWallet = true
		return out
	}

	if code := query.Get(ParamError); code != "" {
		message, known := errorMessages[code]
		if !known {
			message = genericErrorMessage
		}
		if detail := query.Get(ParamErrorDetail); detail != "" {
			message = message + ": " + detail
		}
		out.Notice = &models.Notice{Message: message, Kind: models.NoticeError}
		out.Query.Del(ParamError)
		out.Query.Del(ParamErrorDetail)
		out.Changed = true
	}

	return out
}

// BalanceRefresher is the dependent refresh triggered by a confirmed payment.
type BalanceRefresher interface {
	LoadBalance(ctx context.Context) error
}

// Reconciler consumes payment outcomes encoded in the route's query
// parameters: one notification, one replace-in-place URL cleanup and, for a
// confirmed payment, one wallet refresh per distinct payload.
type Reconciler struct {
	logger *logger.Logger

	router   models.Router
	notifier models.Notifier
	wallet   BalanceRefresher

	mu       sync.Mutex
	lastSeen string
}

// NewReconciler creates a new payment callback reconciler.
func NewReconciler(
	router models.Router,
	notifier models.Notifier,
	wallet BalanceRefresher,
	logger *logger.Logger,
) *Reconciler {
	return &Reconciler{
		logger:   logger,
		router:   router,
		notifier: notifier,
		wallet:   wallet,
	}
}

// React runs the decision table against the current query parameters. Safe
// to call on every render: an unchanged raw query is skipped outright and a
// cleaned query resolves to a no-op.
func (r *Reconciler) React(ctx context.Context) {
	query := r.router.Query()
	raw := query.Encode()

	r.mu.Lock()
	if raw == r.lastSeen {
		r.mu.Unlock()
		return
	}
	r.lastSeen = raw
	r.mu.Unlock()

	out := Resolve(query)
	if out.Notice != nil {
		r.notifier.Notify(*out.Notice)
	}
	if out.Changed {
		r.router.ReplaceQuery(out.Query)
	}
	if out.RefreshWallet {
		if err := r.wallet.LoadBalance(ctx); err != nil {
			r.logger.Error("Failed to refresh wallet balance after payment ", "error ", err)
		}
	}
}

// truthy interprets a flag-style query value.
func truthy(value string) bool {
	if value == "" || value == "0" {
		return false
	}
	return !strings.EqualFold(value, "false")
}

func cloneValues(values url.Values) url.Values {
	clone := make(url.Values, len(values))
	for key, list := range values {
		clone[key] = append([]string(nil), list...)
	}
	return clone
}
