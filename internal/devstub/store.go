package devstub

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

// defaultSettings seeds the settings singleton on first run.
var defaultSettings = models.SystemSettings{
	ID:                     1,
	LiveTradingEnabled:     false,
	UseAiCache:             true,
	TokenCostPer1000:       5,
	BacktestCost:           10,
	StrategyProcessingCost: 20,
	RegistrationBonus:      100,
}

// DemoUsername is the single account the local backend serves.
const DemoUsername = "demo"

// Store persists the local backend's account, settings and charge records.
type Store struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewStore(path string, logger *logger.Logger) (*Store, error) {
	// Configure GORM logger to suppress "record not found" messages
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %s", err)
	}

	if err := db.AutoMigrate(&models.Account{}, &models.SystemSettings{}, &models.ChargeTransaction{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}

	store := &Store{Conn: db, logger: logger}
	if err := store.seed(); err != nil {
		return nil, err
	}
	logger.Info("Local backend store ready ", "path ", path)
	return store, nil
}

// seed ensures the settings singleton and the demo account exist. The demo
// account starts with a placeholder email so the profile prefill rule can be
// exercised end to end.
func (s *Store) seed() error {
	settings := defaultSettings
	if err := s.Conn.FirstOrCreate(&settings, models.SystemSettings{ID: 1}).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %s", err)
	}

	account := models.Account{
		Username:  DemoUsername,
		Email:     DemoUsername + "@example.com",
		Balance:   int64(settings.RegistrationBonus),
		Admin:     true,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.Conn.FirstOrCreate(&account, models.Account{Username: DemoUsername}).Error; err != nil {
		return fmt.Errorf("failed to seed demo account: %s", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

func (s *Store) Account(username string) (*models.Account, error) {
	var account models.Account
	if err := s.Conn.First(&account, "username = ?", username).Error; err != nil {
		return nil, fmt.Errorf("failed to get account: %s", err)
	}
	return &account, nil
}

func (s *Store) UpdateContact(username, email, phone string) error {
	err := s.Conn.Model(&models.Account{}).
		Where("username = ?", username).
		Updates(map[string]any{"email": email, "phone_number": phone}).Error
	if err != nil {
		return fmt.Errorf("failed to update contact fields: %s", err)
	}
	return nil
}

func (s *Store) Credit(username string, amount int64) error {
	err := s.Conn.Model(&models.Account{}).
		Where("username = ?", username).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("failed to credit account: %s", err)
	}
	return nil
}

func (s *Store) Settings() (*models.SystemSettings, error) {
	var settings models.SystemSettings
	if err := s.Conn.First(&settings, "id = ?", 1).Error; err != nil {
		return nil, fmt.Errorf("failed to get settings: %s", err)
	}
	return &settings, nil
}

// ApplySettingsUpdate merges the non-nil fields of a partial update into the
// settings singleton and returns the full aggregate. The store is the merge
// authority, never the client.
func (s *Store) ApplySettingsUpdate(update *models.SettingsUpdate) (*models.SystemSettings, error) {
	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}

	if update.LiveTradingEnabled != nil {
		settings.LiveTradingEnabled = *update.LiveTradingEnabled
	}
	if update.UseAiCache != nil {
		settings.UseAiCache = *update.UseAiCache
	}
	if update.TokenCostPer1000 != nil {
		settings.TokenCostPer1000 = *update.TokenCostPer1000
	}
	if update.BacktestCost != nil {
		settings.BacktestCost = *update.BacktestCost
	}
	if update.StrategyProcessingCost != nil {
		settings.StrategyProcessingCost = *update.StrategyProcessingCost
	}
	if update.RegistrationBonus != nil {
		settings.RegistrationBonus = *update.RegistrationBonus
	}

	if err := s.Conn.Save(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to save settings: %s", err)
	}
	return settings, nil
}

func (s *Store) CreateCharge(username string, amount int64) (*models.ChargeTransaction, error) {
	tx := &models.ChargeTransaction{
		ID:        uuid.NewString(),
		Username:  username,
		Amount:    amount,
		Status:    models.ChargePending,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.Conn.Create(tx).Error; err != nil {
		return nil, fmt.Errorf("failed to create charge transaction: %s", err)
	}
	return tx, nil
}

func (s *Store) Charge(id string) (*models.ChargeTransaction, error) {
	var tx models.ChargeTransaction
	if err := s.Conn.First(&tx, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get charge transaction: %s", err)
	}
	return &tx, nil
}

func (s *Store) SetChargeStatus(id, status string) error {
	err := s.Conn.Model(&models.ChargeTransaction{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update charge status: %s", err)
	}
	return nil
}
