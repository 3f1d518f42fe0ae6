package models

// ProfileStatus is the authoritative session snapshot of the current user's
// contact information, as reported by the platform.
type ProfileStatus struct {
	// Username is the immutable display identifier of the account.
	Username string `json:"username"`
	// Email is the contact email. A platform-provisioned placeholder address
	// is reported here verbatim; callers apply the placeholder rule.
	Email string `json:"email"`
	// PhoneNumber is the contact mobile number, possibly empty or malformed.
	PhoneNumber string `json:"phone_number"`
	// Complete reports whether at least one real contact field is set.
	Complete bool `json:"complete"`
	// Admin reports whether the account holds administrative capability.
	Admin bool `json:"is_admin"`
}

// ProfileUpdate carries the candidate contact fields of a profile submit.
// Empty fields are omitted; the remote is the merge authority.
type ProfileUpdate struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
