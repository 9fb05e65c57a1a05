// Package model defines the core dashboard data types.
package model

import (
	"fmt"
	"strings"
)

// Tier is the authority level derived from a principal.
type Tier string

const (
	TierDemo     Tier = "demo"
	TierEducator Tier = "educator"
	TierAdmin    Tier = "admin"
)

// ValidTiers are the tiers a classifier may return.
var ValidTiers = map[Tier]bool{
	TierDemo:     true,
	TierEducator: true,
	TierAdmin:    true,
}

// ParseTier parses a tier name. The empty string is rejected.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !ValidTiers[t] {
		return "", fmt.Errorf("invalid tier %q (valid: demo, educator, admin)", s)
	}
	return t, nil
}

// Principal is an authenticated identity supplied by the auth provider.
// It is read-only for this module.
type Principal struct {
	ID         string         `json:"id"`
	Email      string         `json:"email,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Attr returns the raw attribute value, or nil.
func (p *Principal) Attr(key string) any {
	if p == nil || p.Attributes == nil {
		return nil
	}
	return p.Attributes[key]
}

// StringAttr returns the attribute as a string when it is one.
func (p *Principal) StringAttr(key string) string {
	s, _ := p.Attr(key).(string)
	return s
}

// BoolAttr reports whether the attribute is exactly boolean true.
func (p *Principal) BoolAttr(key string) bool {
	b, ok := p.Attr(key).(bool)
	return ok && b
}

// Permissions returns the "permissions" attribute as a string slice.
// JSON-decoded arrays ([]any) and comma-separated strings are accepted.
func (p *Principal) Permissions() []string {
	switch v := p.Attr("permissions").(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasPermission reports whether the principal carries the named permission.
func (p *Principal) HasPermission(name string) bool {
	for _, perm := range p.Permissions() {
		if perm == name {
			return true
		}
	}
	return false
}

// NormalizedEmail returns the lower-cased email, or "" for a nil principal.
func (p *Principal) NormalizedEmail() string {
	if p == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(p.Email))
}
