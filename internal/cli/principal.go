package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/educator-insights/internal/model"
)

// parseAttrs turns key=value flags into principal attributes.
// "permissions" is comma separated; "demo" and "is_active" are booleans.
func parseAttrs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("attribute %q is not key=value", pair)
		}
		switch key {
		case "permissions":
			var perms []any
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p != "" {
					perms = append(perms, p)
				}
			}
			attrs[key] = perms
		case "demo", "is_active":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", key, err)
			}
			attrs[key] = b
		default:
			attrs[key] = value
		}
	}
	return attrs, nil
}

// callerPrincipal builds the principal from the persistent flags, or nil
// when none were given.
func callerPrincipal() (*model.Principal, error) {
	attrs, err := parseAttrs(attrFlags)
	if err != nil {
		return nil, err
	}
	if principalID == "" && emailFlag == "" && attrs == nil {
		return nil, nil
	}
	return &model.Principal{ID: principalID, Email: emailFlag, Attributes: attrs}, nil
}
