package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rcliao/educator-insights/internal/model"
)

// PrincipalFromHeaders reads the identity forwarded by the upstream auth
// proxy. No id and no email means an anonymous caller (nil principal).
func PrincipalFromHeaders(h http.Header) (*model.Principal, error) {
	id := strings.TrimSpace(h.Get(HeaderPrincipal))
	email := strings.TrimSpace(h.Get(HeaderEmail))
	raw := strings.TrimSpace(h.Get(HeaderAttributes))
	if id == "" && email == "" {
		return nil, nil
	}

	p := &model.Principal{ID: id, Email: email}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Attributes); err != nil {
			return nil, fmt.Errorf("invalid %s header: %w", HeaderAttributes, err)
		}
	}
	return p, nil
}
