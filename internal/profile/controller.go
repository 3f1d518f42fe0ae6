package profile

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tradeforge/accountsync/internal/config"
	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
	"github.com/tradeforge/accountsync/pkg/validation"
)

// State is the edit lifecycle phase of the profile screen.
type State string

const (
	StateViewing    State = "viewing"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
)

var (
	// ErrSubmitInFlight is returned when a submit is issued while another
	// submit is still outstanding.
	ErrSubmitInFlight = errors.New("profile submit already in flight")
	// ErrNotEditing is returned when an edit operation is issued outside
	// the editing state.
	ErrNotEditing = errors.New("profile is not being edited")
)

const (
	genericSubmitFailure = "Failed to update the profile, please try again"
	submitSuccessMessage = "Profile updated"
)

// Draft holds the candidate contact fields while editing. It exists only
// between BeginEdit and Cancel/successful Submit and is never merged into
// the profile except through the remote round trip.
type Draft struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// Snapshot is an immutable copy of the controller state for binding.
type Snapshot struct {
	State   State                `json:"state"`
	Profile models.ProfileStatus `json:"profile"`
	Draft   Draft                `json:"draft"`
}

// Controller owns the editable-vs-read-only view state of the contact
// fields and reconciles submits against the authoritative remote profile.
type Controller struct {
	logger *logger.Logger

	account  models.AccountService
	session  models.SessionService
	notifier models.Notifier

	placeholderDomain string
	mobilePrefix      string

	mu      sync.Mutex
	state   State
	profile models.ProfileStatus
	draft   Draft
}

// NewController creates a new profile edit controller in the viewing state.
func NewController(
	account models.AccountService,
	session models.SessionService,
	notifier models.Notifier,
	logger *logger.Logger,
	cfg *config.Config,
) *Controller {
	return &Controller{
		logger:            logger,
		account:           account,
		session:           session,
		notifier:          notifier,
		placeholderDomain: cfg.PlaceholderEmailDomain,
		mobilePrefix:      cfg.MobilePrefix,
		state:             StateViewing,
	}
}

// Snapshot returns a copy of the current controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, Profile: c.profile, Draft: c.draft}
}

// LoadProfile fetches the authoritative profile and pre-fills the draft,
// treating placeholder values as unset. A fetch failure is logged and leaves
// both the draft and the state untouched.
func (c *Controller) LoadProfile(ctx context.Context) error {
	status, err := c.account.FetchProfileStatus(ctx)
	if err != nil {
		c.logger.Error("Failed to load profile status ", "error ", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = *status
	c.draft = c.prefill(status)
	return nil
}

// prefill derives draft values from the authoritative profile. Placeholder
// emails and malformed phone numbers become empty so the user is prompted to
// supply real ones.
func (c *Controller) prefill(status *models.ProfileStatus) Draft {
	draft := Draft{}
	if status.Email != "" && !validation.IsPlaceholderEmail(status.Email, c.placeholderDomain) {
		draft.Email = status.Email
	}
	if validation.ValidatePhone(status.PhoneNumber, c.mobilePrefix) == nil {
		draft.PhoneNumber = status.PhoneNumber
	}
	return draft
}

// BeginEdit enters the editing state. Entered only by explicit user action.
func (c *Controller) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	c.state = StateEditing
	return nil
}

// Cancel discards the draft and returns to viewing.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return ErrNotEditing
	}
	c.draft = c.prefill(&c.profile)
	c.state = StateViewing
	return nil
}

// SetEmail updates the draft email as it is typed.
func (c *Controller) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return
	}
	c.draft.Email = strings.TrimSpace(email)
}

// SetPhone updates the draft phone as it is typed, stripping non-digits and
// truncating to the local number length at the input layer.
func (c *Controller) SetPhone(phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return
	}
	c.draft.PhoneNumber = validation.NormalizePhoneInput(phone)
}

// Submit validates the draft locally, then issues exactly one update call.
// On remote success it refreshes the session, re-loads the profile and
// returns to viewing; every failure path stays in editing.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if c.state != StateEditing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	draft := c.draft
	if verr := c.validate(draft); verr != nil {
		c.mu.Unlock()
		c.notifier.Notify(models.Notice{Message: verr.Message, Kind: models.NoticeError})
		return verr
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	// Whatever happens below, the controller must leave the submitting
	// state so the screen stays re-enterable.
	defer func() {
		c.mu.Lock()
		if c.state == StateSubmitting {
			c.state = StateEditing
		}
		c.mu.Unlock()
	}()

	update := &models.ProfileUpdate{Email: draft.Email, PhoneNumber: draft.PhoneNumber}
	if err := c.account.UpdateProfile(ctx, update); err != nil {
		var rejection *models.RemoteRejection
		if errors.As(err, &rejection) {
			c.notifier.Notify(models.Notice{
				Message: rejection.UserMessage(genericSubmitFailure),
				Kind:    models.NoticeError,
			})
		} else {
			c.logger.Error("Failed to update profile ", "error ", err)
			c.notifier.Notify(models.Notice{Message: genericSubmitFailure, Kind: models.NoticeError})
		}
		return err
	}

	if err := c.session.Reauthenticate(ctx); err != nil {
		c.logger.Error("Failed to refresh session after profile update ", "error ", err)
	}
	if err := c.LoadProfile(ctx); err != nil {
		c.logger.Error("Failed to re-load profile after update ", "error ", err)
	}

	c.mu.Lock()
	c.state = StateViewing
	c.mu.Unlock()
	c.notifier.Notify(models.Notice{Message: submitSuccessMessage, Kind: models.NoticeSuccess})
	return nil
}

// validate applies the local pre-network checks to a draft.
func (c *Controller) validate(draft Draft) *models.ValidationError {
	if draft.Email == "" && draft.PhoneNumber == "" {
		return &models.ValidationError{
			Kind:    models.ValidationEmptyInput,
			Message: "Please provide an email address or a mobile number",
		}
	}
	if draft.Email != "" {
		if err := validation.ValidateEmail(draft.Email); err != nil {
			return &models.ValidationError{
				Kind:    models.ValidationInvalidEmail,
				Message: "Please enter a valid email address",
			}
		}
	}
	if draft.PhoneNumber != "" {
		if err := validation.ValidatePhone(draft.PhoneNumber, c.mobilePrefix); err != nil {
			return &models.ValidationError{
				Kind:    models.ValidationInvalidPhone,
				Message: "Please enter a valid mobile number",
			}
		}
	}
	return nil
}
