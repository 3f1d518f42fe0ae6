package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tradeforge/accountsync/internal/config"
	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/internal/route"
	"github.com/tradeforge/accountsync/pkg/logger"
)

type stubWallet struct {
	mu           sync.Mutex
	balance      int64
	balanceErr   error
	result       *models.ChargeResult
	chargeErr    error
	chargeCalls  int
	balanceCalls int
	block        chan struct{}
}

func (s *stubWallet) FetchBalance(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balanceCalls++
	if s.balanceErr != nil {
		return 0, s.balanceErr
	}
	return s.balance, nil
}

func (s *stubWallet) CreateCharge(ctx context.Context, amount int64) (*models.ChargeResult, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chargeCalls++
	if s.chargeErr != nil {
		return nil, s.chargeErr
	}
	return s.result, nil
}

func (s *stubWallet) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chargeCalls
}

type captureNotifier struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (n *captureNotifier) Notify(notice models.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *captureNotifier) all() []models.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notice(nil), n.notices...)
}

func newTestController(service *stubWallet) (*Controller, *route.MemoryRouter, *captureNotifier) {
	router := route.NewMemoryRouter()
	notifier := &captureNotifier{}
	cfg := &config.Config{Denominations: []int64{50, 100, 200}}
	return NewController(service, notifier, router, logger.NewNop(), cfg), router, notifier
}

func TestLoadBalanceReplacesValue(t *testing.T) {
	service := &stubWallet{balance: 150}
	ctl, _, _ := newTestController(service)

	if err := ctl.LoadBalance(context.Background()); err != nil {
		t.Fatalf("LoadBalance failed: %v", err)
	}
	state := ctl.Snapshot()
	if state.Balance != 150 {
		t.Errorf("expected balance 150, got %d", state.Balance)
	}
	if state.Loading {
		t.Error("loading flag must be cleared")
	}

	service.mu.Lock()
	service.balance = 250
	service.mu.Unlock()
	if err := ctl.LoadBalance(context.Background()); err != nil {
		t.Fatalf("LoadBalance failed: %v", err)
	}
	if got := ctl.Snapshot().Balance; got != 250 {
		t.Errorf("expected replaced balance 250, got %d", got)
	}
}

func TestLoadBalanceFailureKeepsLastValue(t *testing.T) {
	service := &stubWallet{balance: 150}
	ctl, _, _ := newTestController(service)
	if err := ctl.LoadBalance(context.Background()); err != nil {
		t.Fatalf("LoadBalance failed: %v", err)
	}

	service.mu.Lock()
	service.balanceErr = errors.New("boom")
	service.mu.Unlock()

	if err := ctl.LoadBalance(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	state := ctl.Snapshot()
	if state.Balance != 150 {
		t.Errorf("expected last known balance, got %d", state.Balance)
	}
	if state.Loading {
		t.Error("loading flag must be cleared on failure too")
	}
}

func TestChargeNavigatesToProcessor(t *testing.T) {
	service := &stubWallet{result: &models.ChargeResult{
		Status:     models.ChargeStatusRedirect,
		PaymentURL: "https://pay.example.net/checkout?tx=abc",
	}}
	ctl, router, notifier := newTestController(service)

	if err := ctl.Charge(context.Background(), 100); err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if got := router.LastNavigation(); got != "https://pay.example.net/checkout?tx=abc" {
		t.Errorf("expected full-page navigation to the processor, got %q", got)
	}
	if len(notifier.all()) != 0 {
		t.Errorf("no notice expected on redirect, got %+v", notifier.all())
	}
	if ctl.Snapshot().Charging {
		t.Error("charging flag must be cleared")
	}
}

func TestChargeSecondCallWhileInFlightIsRejected(t *testing.T) {
	service := &stubWallet{
		result: &models.ChargeResult{Status: models.ChargeStatusRedirect, PaymentURL: "https://pay.example.net/x"},
		block:  make(chan struct{}),
	}
	ctl, _, _ := newTestController(service)

	done := make(chan error, 1)
	go func() { done <- ctl.Charge(context.Background(), 100) }()

	waitForCharging(t, ctl)
	if err := ctl.Charge(context.Background(), 100); !errors.Is(err, ErrChargeInFlight) {
		t.Errorf("expected ErrChargeInFlight, got %v", err)
	}

	close(service.block)
	if err := <-done; err != nil {
		t.Fatalf("first charge failed: %v", err)
	}
	if service.calls() != 1 {
		t.Errorf("expected exactly one charge call, got %d", service.calls())
	}
}

func TestChargeWithoutRedirectSurfacesMessage(t *testing.T) {
	service := &stubWallet{result: &models.ChargeResult{
		Status:       models.ChargeStatusError,
		ErrorMessage: "Channel unavailable",
	}}
	ctl, router, notifier := newTestController(service)

	if err := ctl.Charge(context.Background(), 100); err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	notices := notifier.all()
	if len(notices) != 1 || notices[0].Message != "Channel unavailable" {
		t.Errorf("expected the provided error message, got %+v", notices)
	}
	if router.LastNavigation() != "" {
		t.Error("no navigation expected")
	}
}

func TestChargeWithoutRedirectFallsBackToGenericMessage(t *testing.T) {
	service := &stubWallet{result: &models.ChargeResult{Status: models.ChargeStatusError}}
	ctl, _, notifier := newTestController(service)

	if err := ctl.Charge(context.Background(), 100); err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	notices := notifier.all()
	if len(notices) != 1 || notices[0].Message != genericChargeFailure {
		t.Errorf("expected the generic failure message, got %+v", notices)
	}
}

func TestChargeUnknownDenominationRejectedLocally(t *testing.T) {
	service := &stubWallet{}
	ctl, _, _ := newTestController(service)

	if err := ctl.Charge(context.Background(), 123); !errors.Is(err, ErrUnknownDenomination) {
		t.Fatalf("expected ErrUnknownDenomination, got %v", err)
	}
	if service.calls() != 0 {
		t.Errorf("expected zero network calls, got %d", service.calls())
	}
}

func TestChargeTransportFailureSurfacesGenericMessage(t *testing.T) {
	service := &stubWallet{chargeErr: &models.TransportError{Op: "POST", Err: errors.New("refused")}}
	ctl, _, notifier := newTestController(service)

	if err := ctl.Charge(context.Background(), 100); err == nil {
		t.Fatal("expected an error")
	}
	notices := notifier.all()
	if len(notices) != 1 || notices[0].Message != genericChargeFailure {
		t.Errorf("expected the generic failure message, got %+v", notices)
	}
	if ctl.Snapshot().Charging {
		t.Error("charging flag must be cleared on failure")
	}
}

func waitForCharging(t *testing.T, ctl *Controller) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ctl.Snapshot().Charging {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("controller never entered the charging state")
}
