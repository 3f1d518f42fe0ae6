package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type DenominationConfig struct {
	Amount int64  `yaml:"amount"`
	Label  string `yaml:"label"`
}

type DenominationsConfig struct {
	Denominations []DenominationConfig `yaml:"denominations"`
}

// LoadDenominations reads the fixed set of top-up amounts from a YAML file.
func LoadDenominations(file string) ([]int64, error) {
	var path string
	if filepath.IsAbs(file) {
		path = file
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file, err)
	}

	var cfg DenominationsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}

	if len(cfg.Denominations) == 0 {
		return nil, fmt.Errorf("%s defines no denominations", file)
	}

	amounts := make([]int64, 0, len(cfg.Denominations))
	for i, d := range cfg.Denominations {
		if d.Amount <= 0 {
			return nil, fmt.Errorf("denomination at index %d has non-positive amount", i)
		}
		amounts = append(amounts, d.Amount)
	}

	return amounts, nil
}
