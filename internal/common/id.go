package common

import (
	"strings"

	"github.com/google/uuid"
)

// NewRequestID generates a unique request identifier
func NewRequestID() string {
	return "req_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:20]
}

// NewLoopName generates a unique human-review loop name. A2I loop names
// must be lowercase alphanumeric with hyphens.
func NewLoopName(repoName string) string {
	slug := strings.ToLower(repoName)
	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, slug)
	slug = strings.Trim(slug, "-")
	if len(slug) > 24 {
		slug = slug[:24]
	}
	return slug + "-" + uuid.New().String()[:8]
}
