package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDenominations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denominations.yaml")
	content := `denominations:
  - amount: 50
    label: "Starter"
  - amount: 100
    label: "Standard"
  - amount: 500
    label: "Pro"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	amounts, err := LoadDenominations(path)
	if err != nil {
		t.Fatalf("LoadDenominations failed: %v", err)
	}
	if want := []int64{50, 100, 500}; !reflect.DeepEqual(amounts, want) {
		t.Errorf("expected %v, got %v", want, amounts)
	}
}

func TestLoadDenominationsRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"empty list":          "denominations: []\n",
		"non-positive amount": "denominations:\n  - amount: 0\n    label: \"Free\"\n",
		"not yaml":            "{{{\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}
			if _, err := LoadDenominations(path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := LoadDenominations(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		APIBaseURL:       "http://localhost:6580",
		PaymentReturnURL: "http://localhost:6580/console/wallet",
		MobilePrefix:     "09",
		Denominations:    []int64{50, 100},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"missing base URL":      func(c *Config) { c.APIBaseURL = "" },
		"missing return URL":    func(c *Config) { c.PaymentReturnURL = "" },
		"empty prefix":          func(c *Config) { c.MobilePrefix = "" },
		"non-digit prefix":      func(c *Config) { c.MobilePrefix = "0x" },
		"prefix too long":       func(c *Config) { c.MobilePrefix = "091234567890" },
		"no denominations":      func(c *Config) { c.Denominations = nil },
		"negative denomination": func(c *Config) { c.Denominations = []int64{-1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DEVELOPMENT", "API_PORT", "API_BASE_URL", "PAYMENT_RETURN_URL",
		"DENOMINATIONS_FILE", "PLACEHOLDER_EMAIL_DOMAIN", "MOBILE_PREFIX", "DATABASE_PATH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIPort != 6580 || cfg.MobilePrefix != "09" || cfg.PlaceholderEmailDomain != "example.com" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Denominations, defaultDenominations) {
		t.Errorf("expected default denominations, got %v", cfg.Denominations)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("MOBILE_PREFIX", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIPort != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.APIPort)
	}
	if cfg.MobilePrefix != "0" {
		t.Errorf("expected prefix override, got %q", cfg.MobilePrefix)
	}
}
