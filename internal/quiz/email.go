// Package quiz implements the phishing-email quiz: the email dataset, the
// progression state machine and the end-of-game rating.
package quiz

import (
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Email is a single quiz item. Emails are immutable once loaded.
type Email struct {
	ID          int      `yaml:"id" json:"id"`
	From        string   `yaml:"from" json:"from"`
	Subject     string   `yaml:"subject" json:"subject"`
	Body        string   `yaml:"body" json:"body"`
	IsPhishing  bool     `yaml:"is_phishing" json:"isPhishing"`
	Explanation string   `yaml:"explanation" json:"explanation"`
	RedFlags    []string `yaml:"red_flags,omitempty" json:"redFlags,omitempty"`
}

// Choice is the player's verdict on an email.
type Choice string

const (
	ChoiceSafe     Choice = "safe"
	ChoicePhishing Choice = "phishing"
)

// Valid reports whether c is one of the known choices.
func (c Choice) Valid() bool {
	return c == ChoiceSafe || c == ChoicePhishing
}

// CorrectChoice returns the verdict a player should give for e.
func (e Email) CorrectChoice() Choice {
	if e.IsPhishing {
		return ChoicePhishing
	}
	return ChoiceSafe
}

// SenderDomain returns the registrable domain (eTLD+1) of the From address,
// e.g. "paypa1-security.com" for "no-reply@paypa1-security.com".
func SenderDomain(e Email) (string, error) {
	addr := e.From
	if parsed, err := mail.ParseAddress(e.From); err == nil {
		addr = parsed.Address
	}

	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return "", fmt.Errorf("sender %q has no domain", e.From)
	}
	host := strings.ToLower(strings.TrimSuffix(addr[at+1:], "."))

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("sender domain %q: %w", host, err)
	}
	return domain, nil
}
