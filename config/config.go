// Package config holds the conversion profile: symbol aliases, the set of
// export actions to skip, the supported foreign currencies for FX pairing,
// and the account types treated as registered.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Alias maps a legacy or internal symbol code to its canonical ticker and
// the display name used in the provenance memo.
type Alias struct {
	Symbol string `yaml:"symbol"`
	AKA    string `yaml:"aka"`
}

// Profile configures one conversion run. The zero value is not usable;
// start from Default or Load.
type Profile struct {
	// SymbolAliases keys are the raw symbols as they appear in exports.
	SymbolAliases map[string]Alias `yaml:"symbol_aliases"`
	// IgnoredActions are export action codes silently skipped, compared
	// case-insensitively. The empty string covers blank action cells.
	IgnoredActions []string `yaml:"ignored_actions"`
	// FXCurrencies is the allow-list of non-CAD currencies supported in
	// foreign exchange pairing.
	FXCurrencies []string `yaml:"fx_currencies"`
	// RegisteredAccounts is a regular expression matched (case-insensitively)
	// against the account type to decide the registered affiliate tag.
	RegisteredAccounts string `yaml:"registered_accounts"`

	registered *regexp.Regexp
}

// Default returns the built-in profile.
func Default() *Profile {
	p := &Profile{
		SymbolAliases: map[string]Alias{
			"H038778": {Symbol: "DLR.TO", AKA: "DLR.U.TO"},
		},
		IgnoredActions: []string{
			"BRW", "TFI", "TF6", "MGR", "DEP", "NAC", "CON", "INT", "EFT", "RDM", "",
		},
		FXCurrencies:       []string{"USD"},
		RegisteredAccounts: "rrsp|tfsa|resp",
	}
	if err := p.compile(); err != nil {
		panic(err.Error())
	}
	return p
}

// Load reads a YAML profile from path. Omitted fields keep their default
// values.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", path, err)
	}
	if err := p.compile(); err != nil {
		return nil, fmt.Errorf("invalid profile %q: %w", path, err)
	}
	return p, nil
}

func (p *Profile) compile() error {
	re, err := regexp.Compile("(?i)" + p.RegisteredAccounts)
	if err != nil {
		return fmt.Errorf("registered_accounts: %w", err)
	}
	p.registered = re
	return nil
}

// IgnoredAction reports whether the action code should be silently skipped.
func (p *Profile) IgnoredAction(code string) bool {
	for _, a := range p.IgnoredActions {
		if strings.EqualFold(a, code) {
			return true
		}
	}
	return false
}

// SupportedFX reports whether cur is in the FX currency allow-list.
func (p *Profile) SupportedFX(cur string) bool {
	for _, c := range p.FXCurrencies {
		if strings.EqualFold(c, cur) {
			return true
		}
	}
	return false
}

// IsRegistered reports whether the account type denotes a registered
// (tax-sheltered) account.
func (p *Profile) IsRegistered(accountType string) bool {
	return p.registered.MatchString(accountType)
}
