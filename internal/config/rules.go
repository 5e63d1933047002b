package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules are validator settings read from a YAML file:
//
//	country_code: CA
//	skip:
//	  - route_color_contrast
//	  - feed_expiration_date
type Rules struct {
	// CountryCode is used when VALIDATION_COUNTRY_CODE is unset.
	CountryCode string `yaml:"country_code"`

	// Skip lists validator names that never run.
	Skip []string `yaml:"skip"`
}

// LoadRules reads a rules file. Unknown keys are rejected.
func LoadRules(path string) (Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return Rules{}, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	return decodeRules(f)
}

func decodeRules(r io.Reader) (Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("parse rules file: %w", err)
	}

	rules.CountryCode = strings.ToUpper(strings.TrimSpace(rules.CountryCode))
	skip := rules.Skip[:0]
	for _, name := range rules.Skip {
		if name = strings.TrimSpace(name); name != "" {
			skip = append(skip, name)
		}
	}
	rules.Skip = skip
	return rules, nil
}
