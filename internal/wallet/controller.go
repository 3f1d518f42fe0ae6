package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/tradeforge/accountsync/internal/config"
	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

var (
	// ErrChargeInFlight is returned when a charge is issued while another
	// charge is still outstanding.
	ErrChargeInFlight = errors.New("charge already in flight")
	// ErrUnknownDenomination is returned for amounts outside the fixed set.
	ErrUnknownDenomination = errors.New("unsupported top-up amount")
)

const genericChargeFailure = "Failed to start the payment, please try again"

// Controller owns the wallet balance view and the charge initiation flow.
type Controller struct {
	logger *logger.Logger

	wallet   models.WalletService
	notifier models.Notifier
	router   models.Router

	denominations []int64

	mu    sync.Mutex
	state models.WalletState
}

// NewController creates a new wallet controller with an empty state.
func NewController(
	wallet models.WalletService,
	notifier models.Notifier,
	router models.Router,
	logger *logger.Logger,
	cfg *config.Config,
) *Controller {
	return &Controller{
		logger:        logger,
		wallet:        wallet,
		notifier:      notifier,
		router:        router,
		denominations: cfg.Denominations,
	}
}

// Snapshot returns a copy of the current wallet state.
func (c *Controller) Snapshot() models.WalletState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Denominations returns the fixed set of top-up amounts for binding.
func (c *Controller) Denominations() []int64 {
	amounts := make([]int64, len(c.denominations))
	copy(amounts, c.denominations)
	return amounts
}

// LoadBalance fetches the balance and replaces the stored value. Idempotent;
// called on mount and after every confirmed payment signal. A fetch failure
// is logged and leaves the last known balance in place.
func (c *Controller) LoadBalance(ctx context.Context) error {
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.state.Loading = false
		c.mu.Unlock()
	}()

	balance, err := c.wallet.FetchBalance(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch wallet balance ", "error ", err)
		return err
	}

	c.mu.Lock()
	c.state.Balance = balance
	c.mu.Unlock()
	return nil
}

// Charge initiates a top-up of one of the fixed denominations. At most one
// charge may be in flight; the flag is set before the call is issued and a
// concurrent attempt is rejected without touching the network. A returned
// redirect target navigates the whole page to the external processor.
func (c *Controller) Charge(ctx context.Context, amount int64) error {
	if !c.isDenomination(amount) {
		c.logger.Warn("Rejected charge with unknown denomination ", "amount ", amount)
		return ErrUnknownDenomination
	}

	c.mu.Lock()
	if c.state.Charging {
		c.mu.Unlock()
		return ErrChargeInFlight
	}
	c.state.Charging = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.state.Charging = false
		c.mu.Unlock()
	}()

	result, err := c.wallet.CreateCharge(ctx, amount)
	if err != nil {
		var rejection *models.RemoteRejection
		if errors.As(err, &rejection) {
			c.notifier.Notify(models.Notice{
				Message: rejection.UserMessage(genericChargeFailure),
				Kind:    models.NoticeError,
			})
		} else {
			c.logger.Error("Failed to create charge ", "error ", err)
			c.notifier.Notify(models.Notice{Message: genericChargeFailure, Kind: models.NoticeError})
		}
		return err
	}

	if result.PaymentURL != "" {
		// Hard boundary crossing into the processor's domain.
		c.router.Navigate(result.PaymentURL)
		return nil
	}

	message := result.ErrorMessage
	if message == "" {
		message = genericChargeFailure
	}
	c.notifier.Notify(models.Notice{Message: message, Kind: models.NoticeError})
	return nil
}

func (c *Controller) isDenomination(amount int64) bool {
	for _, d := range c.denominations {
		if d == amount {
			return true
		}
	}
	return false
}
