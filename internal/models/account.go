package models

// Account is the account record persisted by the local development backend.
type Account struct {
	// Username is the immutable account identifier.
	Username string `json:"username" gorm:"column:username;primaryKey"`
	// Email is the contact email, possibly a provisioned placeholder.
	Email string `json:"email" gorm:"column:email"`
	// PhoneNumber is the contact mobile number, possibly empty.
	PhoneNumber string `json:"phone_number" gorm:"column:phone_number"`
	// Balance is the wallet balance in whole display units.
	Balance int64 `json:"balance" gorm:"column:balance"`
	// Admin marks accounts holding administrative capability.
	Admin bool `json:"is_admin" gorm:"column:is_admin"`
	// CreatedAt is the Unix timestamp of account creation.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;index"`
}
