package devstub

import (
	"path/filepath"
	"testing"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSeedCreatesSettingsAndDemoAccount(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.BacktestCost != defaultSettings.BacktestCost || !settings.UseAiCache {
		t.Errorf("unexpected seeded settings: %+v", settings)
	}

	account, err := store.Account(DemoUsername)
	if err != nil {
		t.Fatalf("Account failed: %v", err)
	}
	if account.Email != DemoUsername+"@example.com" {
		t.Errorf("demo account must start with a placeholder email, got %q", account.Email)
	}
	if account.Balance != int64(settings.RegistrationBonus) {
		t.Errorf("demo account must start with the registration bonus, got %d", account.Balance)
	}
	if !account.Admin {
		t.Error("demo account must carry the admin capability")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := NewStore(path, logger.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Credit(DemoUsername, 50); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewStore(path, logger.NewNop())
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	account, err := reopened.Account(DemoUsername)
	if err != nil {
		t.Fatalf("Account failed: %v", err)
	}
	if account.Balance != int64(defaultSettings.RegistrationBonus)+50 {
		t.Errorf("reseeding must not reset the account, balance is %d", account.Balance)
	}
}

func TestUpdateContact(t *testing.T) {
	store := newTestStore(t)

	if err := store.UpdateContact(DemoUsername, "demo@tradeforge.io", "09123456789"); err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}

	account, err := store.Account(DemoUsername)
	if err != nil {
		t.Fatalf("Account failed: %v", err)
	}
	if account.Email != "demo@tradeforge.io" || account.PhoneNumber != "09123456789" {
		t.Errorf("unexpected contact fields: %+v", account)
	}
}

func TestApplySettingsUpdateMergesPartialChange(t *testing.T) {
	store := newTestStore(t)

	cost := 50.0
	merged, err := store.ApplySettingsUpdate(&models.SettingsUpdate{BacktestCost: &cost})
	if err != nil {
		t.Fatalf("ApplySettingsUpdate failed: %v", err)
	}
	if merged.BacktestCost != 50 {
		t.Errorf("expected backtest cost 50, got %v", merged.BacktestCost)
	}
	if merged.TokenCostPer1000 != defaultSettings.TokenCostPer1000 || merged.UseAiCache != defaultSettings.UseAiCache {
		t.Errorf("untouched fields must keep their values: %+v", merged)
	}

	persisted, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if persisted.BacktestCost != 50 {
		t.Errorf("merge must be persisted, got %v", persisted.BacktestCost)
	}
}

func TestChargeLifecycle(t *testing.T) {
	store := newTestStore(t)

	tx, err := store.CreateCharge(DemoUsername, 200)
	if err != nil {
		t.Fatalf("CreateCharge failed: %v", err)
	}
	if tx.ID == "" || tx.Status != models.ChargePending || tx.Amount != 200 {
		t.Errorf("unexpected transaction: %+v", tx)
	}

	if err := store.SetChargeStatus(tx.ID, models.ChargeCompleted); err != nil {
		t.Fatalf("SetChargeStatus failed: %v", err)
	}
	settled, err := store.Charge(tx.ID)
	if err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if settled.Status != models.ChargeCompleted {
		t.Errorf("expected completed status, got %q", settled.Status)
	}

	if _, err := store.Charge("no-such-id"); err == nil {
		t.Error("expected an error for an unknown transaction")
	}
}
