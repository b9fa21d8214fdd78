package contract

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed terms_it.yaml
var termsIT []byte

// Clause is one numbered article of the general rental conditions.
type Clause struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type ConsentOptions struct {
	Accept  string `yaml:"accept"`
	Decline string `yaml:"decline"`
}

// Terms is the static legal text printed after the contract page.
type Terms struct {
	Title          string         `yaml:"title"`
	Intro          string         `yaml:"intro"`
	Articles       []Clause       `yaml:"articles"`
	Consent        string         `yaml:"consent"`
	ConsentOptions ConsentOptions `yaml:"consent_options"`
	Marketing      string         `yaml:"marketing"`
	Attestation    string         `yaml:"attestation"`
}

// ParseTerms decodes a terms document in the terms_it.yaml layout.
func ParseTerms(data []byte) (*Terms, error) {
	var t Terms
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse terms: %w", err)
	}
	if t.Title == "" || len(t.Articles) == 0 {
		return nil, fmt.Errorf("terms must have a title and at least one article")
	}
	return &t, nil
}

// DefaultTerms returns the embedded Italian conditions.
func DefaultTerms() *Terms {
	t, err := ParseTerms(termsIT)
	if err != nil {
		panic(err)
	}
	return t
}
