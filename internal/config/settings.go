package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"

	"github.com/nao1215/jpfill/internal/convention"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/validation"
)

var settingsValidator = validation.New()

// Settings shape a single fill pass. Zero values mean "not set" so that a
// site entry only overrides what it names.
type Settings struct {
	// SkipHiddenFields leaves type=hidden inputs alone. Defaults to true.
	SkipHiddenFields *bool `yaml:"skipHiddenFields,omitempty" json:"skipHiddenFields,omitempty"`

	// SkipReadonlyFields leaves read-only and disabled controls alone.
	// Defaults to true.
	SkipReadonlyFields *bool `yaml:"skipReadonlyFields,omitempty" json:"skipReadonlyFields,omitempty"`

	// DefaultGender selects the given-name table: random, male or female.
	DefaultGender string `yaml:"defaultGender,omitempty" json:"defaultGender,omitempty" validate:"omitempty,oneof=random male female"`

	// NameFormat orders composite names: surname-first or given-first.
	NameFormat string `yaml:"nameFormat,omitempty" json:"nameFormat,omitempty" validate:"omitempty,oneof=surname-first given-first"`

	// PhoneStyle selects the number written into generic phone fields:
	// mobile or landline.
	PhoneStyle string `yaml:"phoneStyle,omitempty" json:"phoneStyle,omitempty" validate:"omitempty,oneof=mobile landline"`

	// CustomCompanies replaces the built-in company names.
	CustomCompanies []string `yaml:"customCompanies,omitempty" json:"customCompanies,omitempty" validate:"omitempty,dive,required"`

	// Widgets overrides the class names used to recognize widgets.
	Widgets convention.Conventions `yaml:"widgets,omitempty" json:"widgets,omitempty"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		SkipHiddenFields:   boolPtr(true),
		SkipReadonlyFields: boolPtr(true),
		DefaultGender:      "random",
		NameFormat:         "surname-first",
		PhoneStyle:         "mobile",
		Widgets:            convention.Default(),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// SkipHidden reports whether hidden inputs are skipped.
func (s Settings) SkipHidden() bool {
	return s.SkipHiddenFields == nil || *s.SkipHiddenFields
}

// SkipReadonly reports whether read-only and disabled controls are skipped.
func (s Settings) SkipReadonly() bool {
	return s.SkipReadonlyFields == nil || *s.SkipReadonlyFields
}

// Gender returns the configured gender; random maps to GenderUnspecified.
func (s Settings) Gender() model.Gender {
	return model.ParseGender(s.DefaultGender)
}

// Merge returns s with every field that over sets replaced by over's value.
func (s Settings) Merge(over Settings) Settings {
	result := s
	if over.SkipHiddenFields != nil {
		result.SkipHiddenFields = boolPtr(*over.SkipHiddenFields)
	}
	if over.SkipReadonlyFields != nil {
		result.SkipReadonlyFields = boolPtr(*over.SkipReadonlyFields)
	}
	if over.DefaultGender != "" {
		result.DefaultGender = over.DefaultGender
	}
	if over.NameFormat != "" {
		result.NameFormat = over.NameFormat
	}
	if over.PhoneStyle != "" {
		result.PhoneStyle = over.PhoneStyle
	}
	if len(over.CustomCompanies) > 0 {
		result.CustomCompanies = slices.Clone(over.CustomCompanies)
	}
	result.Widgets = over.Widgets.Merge(s.Widgets)
	return result
}

// Validate checks the enumerated fields.
func (s Settings) Validate() error {
	return settingsValidator.Validate(s)
}

// File represents the structure of the .jpfill configuration file.
type File struct {
	// Sites maps host names (optionally with port) to their overrides.
	Sites map[string]Settings `yaml:"sites,omitempty"`

	// Defaults applies to every page unless a site overrides it.
	Defaults Settings `yaml:"defaults,omitempty"`
}

// GetSiteSettings returns the settings for host: the built-in defaults,
// then the file defaults, then the entry for host. An entry keyed with a
// port wins over one keyed by the bare host name.
func (cf *File) GetSiteSettings(host string) Settings {
	result := DefaultSettings()
	if cf == nil {
		return result
	}
	result = result.Merge(cf.Defaults)

	if hostname, _, err := net.SplitHostPort(host); err == nil {
		if site, ok := cf.Sites[hostname]; ok {
			result = result.Merge(site)
		}
	}
	if site, ok := cf.Sites[host]; ok {
		result = result.Merge(site)
	}
	return result
}

// SettingsForURL returns the settings for the host of pageURL. Local files
// and unparsable URLs receive the defaults.
func (cf *File) SettingsForURL(pageURL string) Settings {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return cf.GetSiteSettings("")
	}
	return cf.GetSiteSettings(u.Host)
}

// Validate checks the defaults and every site entry.
func (cf *File) Validate() error {
	if err := cf.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	hosts := make([]string, 0, len(cf.Sites))
	for host := range cf.Sites {
		hosts = append(hosts, host)
	}
	slices.Sort(hosts)
	for _, host := range hosts {
		if err := cf.Sites[host].Validate(); err != nil {
			return fmt.Errorf("site %s: %w", host, err)
		}
	}
	return nil
}
