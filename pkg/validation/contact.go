package validation

import (
	"fmt"
	"strings"
)

const (
	// PhoneLength is the full length of a local mobile number, prefix included.
	PhoneLength = 11

	// DefaultMobilePrefix is the prefix a local mobile number must start with.
	DefaultMobilePrefix = "09"

	// DefaultPlaceholderDomain marks email addresses that were provisioned by
	// the platform rather than supplied by the user.
	DefaultPlaceholderDomain = "example.com"
)

// ValidateEmail validates an email address format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidatePhone validates a local mobile number: exactly PhoneLength digits
// starting with the given prefix
func ValidatePhone(phone, prefix string) error {
	if phone == "" {
		return fmt.Errorf("phone number cannot be empty")
	}
	if len(phone) != PhoneLength {
		return fmt.Errorf("invalid phone length: expected %d digits, got %d", PhoneLength, len(phone))
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone number must contain digits only")
		}
	}
	if prefix == "" {
		prefix = DefaultMobilePrefix
	}
	if !strings.HasPrefix(phone, prefix) {
		return fmt.Errorf("phone number must start with %s", prefix)
	}
	return nil
}

// NormalizePhoneInput strips every non-digit character and truncates to
// PhoneLength. Applied at the input layer so the length validation in
// ValidatePhone stays meaningful.
func NormalizePhoneInput(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == PhoneLength {
				break
			}
		}
	}
	return b.String()
}

// IsPlaceholderEmail reports whether the address belongs to the placeholder
// domain and should be treated as unset.
func IsPlaceholderEmail(email, placeholderDomain string) bool {
	if email == "" {
		return false
	}
	if placeholderDomain == "" {
		placeholderDomain = DefaultPlaceholderDomain
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(placeholderDomain))
}
