package settings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

var (
	// ErrForbidden is returned for every operation issued without
	// administrative capability.
	ErrForbidden = errors.New("administrator capability required")
	// ErrSaveInFlight is returned when a settings mutation is issued while
	// another one is still outstanding.
	ErrSaveInFlight = errors.New("settings update already in flight")
	// ErrClearInFlight is returned when a cache clear is issued while
	// another one is still outstanding.
	ErrClearInFlight = errors.New("cache clear already in flight")
	// ErrConfirmRequired is returned when ClearCache is called without the
	// explicit confirmation step.
	ErrConfirmRequired = errors.New("cache clear requires confirmation")
	// ErrUnknownField is returned for a field name outside the aggregate.
	ErrUnknownField = errors.New("unknown settings field")
)

const (
	genericSaveFailure  = "Failed to update the system settings"
	genericClearFailure = "Failed to clear the AI cache"
)

// BoolField names an independently togglable boolean setting.
type BoolField string

const (
	FieldLiveTrading BoolField = "live_trading_enabled"
	FieldUseAiCache  BoolField = "use_ai_cache"
)

// CostField names an independently editable numeric setting.
type CostField string

const (
	FieldTokenCostPer1000       CostField = "token_cost_per_1000"
	FieldBacktestCost           CostField = "backtest_cost"
	FieldStrategyProcessingCost CostField = "strategy_processing_cost"
	FieldRegistrationBonus      CostField = "registration_bonus"
)

// Snapshot is an immutable copy of the controller state for binding.
type Snapshot struct {
	Settings        models.SystemSettings `json:"settings"`
	Loaded          bool                  `json:"loaded"`
	Saving          bool                  `json:"saving"`
	Clearing        bool                  `json:"clearing"`
	AwaitingConfirm bool                  `json:"awaiting_confirm"`
}

// Controller owns the admin settings aggregate: single-field toggles,
// save-on-blur cost edits and the destructive cache clear. Every operation
// is gated on administrative capability.
type Controller struct {
	logger *logger.Logger

	service  models.SettingsService
	session  models.SessionService
	flags    models.FeatureFlagService
	notifier models.Notifier

	mu              sync.Mutex
	settings        models.SystemSettings
	loaded          bool
	saving          bool
	clearing        bool
	awaitingConfirm bool
}

// NewController creates a new system settings controller.
func NewController(
	service models.SettingsService,
	session models.SessionService,
	flags models.FeatureFlagService,
	notifier models.Notifier,
	logger *logger.Logger,
) *Controller {
	return &Controller{
		logger:   logger,
		service:  service,
		session:  session,
		flags:    flags,
		notifier: notifier,
	}
}

// Snapshot returns a copy of the current controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Settings:        c.settings,
		Loaded:          c.loaded,
		Saving:          c.saving,
		Clearing:        c.clearing,
		AwaitingConfirm: c.awaitingConfirm,
	}
}

// Load fetches the settings aggregate and replaces the local copy wholesale.
func (c *Controller) Load(ctx context.Context) error {
	if !c.session.IsAdmin() {
		return ErrForbidden
	}

	settings, err := c.service.FetchSettings(ctx)
	if err != nil {
		c.logger.Error("Failed to load system settings ", "error ", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = *settings
	c.loaded = true
	return nil
}

// Toggle flips a boolean field in a single round trip. The server's response
// replaces the whole aggregate, so the server may adjust dependent values.
// A successful live-trading flip also reloads the feature flag cache.
func (c *Controller) Toggle(ctx context.Context, field BoolField) error {
	if !c.session.IsAdmin() {
		return ErrForbidden
	}

	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	var target bool
	switch field {
	case FieldLiveTrading:
		target = !c.settings.LiveTradingEnabled
	case FieldUseAiCache:
		target = !c.settings.UseAiCache
	default:
		c.mu.Unlock()
		return ErrUnknownField
	}
	c.saving = true
	c.mu.Unlock()
	defer c.clearSaving()

	update := &models.SettingsUpdate{}
	switch field {
	case FieldLiveTrading:
		update.LiveTradingEnabled = &target
	case FieldUseAiCache:
		update.UseAiCache = &target
	}

	fresh, err := c.service.UpdateSettings(ctx, update)
	if err != nil {
		c.surfaceSaveFailure(err)
		return err
	}

	c.mu.Lock()
	c.settings = *fresh
	c.mu.Unlock()

	if field == FieldLiveTrading {
		if err := c.flags.Reload(ctx); err != nil {
			c.logger.Error("Failed to reload feature flags ", "error ", err)
		}
	}
	return nil
}

// SetCost applies a keystroke to a numeric field: the local value is updated
// optimistically, while non-numeric or negative input is ignored outright.
func (c *Controller) SetCost(field CostField, raw string) error {
	if !c.session.IsAdmin() {
		return ErrForbidden
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		// Not stored.
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	target, ok := c.costField(field)
	if !ok {
		return ErrUnknownField
	}
	*target = value
	return nil
}

// CommitCost runs on blur: exactly one update call carrying only the edited
// field. On success the whole aggregate is replaced from the response; on
// failure the optimistic local value stays as-is (last-write-wins, no retry)
// and an error is surfaced.
func (c *Controller) CommitCost(ctx context.Context, field CostField) error {
	if !c.session.IsAdmin() {
		return ErrForbidden
	}

	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	target, ok := c.costField(field)
	if !ok {
		c.mu.Unlock()
		return ErrUnknownField
	}
	value := *target
	c.saving = true
	c.mu.Unlock()
	defer c.clearSaving()

	update := &models.SettingsUpdate{}
	switch field {
	case FieldTokenCostPer1000:
		update.TokenCostPer1000 = &value
	case FieldBacktestCost:
		update.BacktestCost = &value
	case FieldStrategyProcessingCost:
		update.StrategyProcessingCost = &value
	case FieldRegistrationBonus:
		update.RegistrationBonus = &value
	}

	fresh, err := c.service.UpdateSettings(ctx, update)
	if err != nil {
		c.surfaceSaveFailure(err)
		return err
	}

	c.mu.Lock()
	c.settings = *fresh
	c.mu.Unlock()
	return nil
}

// RequestClearCache arms the destructive cache clear. The actual call only
// goes out once ClearCache confirms it.
func (c *Controller) RequestClearCache() error {
	if !c.session.IsAdmin() {
		return ErrForbidden
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaitingConfirm = true
	return nil
}

// CancelClearCache disarms a pending cache clear confirmation.
func (c *Controller) CancelClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaitingConfirm = false
}

// ClearCache issues the destructive call. It requires a preceding
// RequestClearCache and is mutually exclusive with itself, independently of
// the toggle/edit guard.
func (c *Controller) ClearCache(ctx context.Context) error {
	if !c.session.IsAdmin() {
		return ErrForbidden
	}

	c.mu.Lock()
	if c.clearing {
		c.mu.Unlock()
		return ErrClearInFlight
	}
	if !c.awaitingConfirm {
		c.mu.Unlock()
		return ErrConfirmRequired
	}
	c.awaitingConfirm = false
	c.clearing = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.clearing = false
		c.mu.Unlock()
	}()

	result, err := c.service.ClearAiCache(ctx)
	if err != nil {
		var rejection *models.RemoteRejection
		if errors.As(err, &rejection) {
			c.notifier.Notify(models.Notice{
				Message: rejection.UserMessage(genericClearFailure),
				Kind:    models.NoticeError,
			})
		} else {
			c.logger.Error("Failed to clear AI cache ", "error ", err)
			c.notifier.Notify(models.Notice{Message: genericClearFailure, Kind: models.NoticeError})
		}
		return err
	}

	message := result.Message
	if message == "" {
		message = fmt.Sprintf("Removed %d cached entries", result.DeletedCount)
	}
	c.notifier.Notify(models.Notice{Message: message, Kind: models.NoticeSuccess})
	return nil
}

// costField maps a field name to its slot in the local aggregate.
// Caller holds the lock.
func (c *Controller) costField(field CostField) (*float64, bool) {
	switch field {
	case FieldTokenCostPer1000:
		return &c.settings.TokenCostPer1000, true
	case FieldBacktestCost:
		return &c.settings.BacktestCost, true
	case FieldStrategyProcessingCost:
		return &c.settings.StrategyProcessingCost, true
	case FieldRegistrationBonus:
		return &c.settings.RegistrationBonus, true
	}
	return nil, false
}

func (c *Controller) clearSaving() {
	c.mu.Lock()
	c.saving = false
	c.mu.Unlock()
}

func (c *Controller) surfaceSaveFailure(err error) {
	var rejection *models.RemoteRejection
	if errors.As(err, &rejection) {
		c.notifier.Notify(models.Notice{
			Message: rejection.UserMessage(genericSaveFailure),
			Kind:    models.NoticeError,
		})
		return
	}
	c.logger.Error("Failed to update system settings ", "error ", err)
	c.notifier.Notify(models.Notice{Message: genericSaveFailure, Kind: models.NoticeError})
}
