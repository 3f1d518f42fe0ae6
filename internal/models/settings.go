package models

// SystemSettings is the admin-visible settings aggregate. The remote is the
// merge authority: partial updates go out, the full aggregate comes back.
type SystemSettings struct {
	ID int64 `json:"-" gorm:"column:id;primaryKey"`
	// LiveTradingEnabled gates order placement against real exchanges.
	LiveTradingEnabled bool `json:"live_trading_enabled" gorm:"column:live_trading_enabled"`
	// UseAiCache gates reuse of cached AI analysis results.
	UseAiCache bool `json:"use_ai_cache" gorm:"column:use_ai_cache"`
	// TokenCostPer1000 is the credit cost per 1000 AI tokens.
	TokenCostPer1000 float64 `json:"token_cost_per_1000" gorm:"column:token_cost_per_1000"`
	// BacktestCost is the credit cost of one backtest run.
	BacktestCost float64 `json:"backtest_cost" gorm:"column:backtest_cost"`
	// StrategyProcessingCost is the credit cost of one strategy evaluation.
	StrategyProcessingCost float64 `json:"strategy_processing_cost" gorm:"column:strategy_processing_cost"`
	// RegistrationBonus is the credit amount granted to new accounts.
	RegistrationBonus float64 `json:"registration_bonus" gorm:"column:registration_bonus"`
}

// TableName specifies the table name for GORM
func (SystemSettings) TableName() string {
	return "system_settings"
}

// SettingsUpdate is a partial settings change. Only the fields the user
// actually changed are set; everything else stays nil and is left untouched
// by the remote.
type SettingsUpdate struct {
	LiveTradingEnabled     *bool    `json:"live_trading_enabled,omitempty"`
	UseAiCache             *bool    `json:"use_ai_cache,omitempty"`
	TokenCostPer1000       *float64 `json:"token_cost_per_1000,omitempty"`
	BacktestCost           *float64 `json:"backtest_cost,omitempty"`
	StrategyProcessingCost *float64 `json:"strategy_processing_cost,omitempty"`
	RegistrationBonus      *float64 `json:"registration_bonus,omitempty"`
}

// ClearCacheResult reports the outcome of a destructive AI cache clear.
type ClearCacheResult struct {
	DeletedCount int    `json:"deleted_count"`
	Message      string `json:"message,omitempty"`
}
