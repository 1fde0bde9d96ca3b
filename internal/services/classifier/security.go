package classifier

import (
	"regexp"

	gh "github.com/ternarybob/scribo/internal/connectors/github"
	"github.com/ternarybob/scribo/internal/models"
)

// securityPattern pairs a detection regex with a finding description
type securityPattern struct {
	re          *regexp.Regexp
	name        string
	description string
}

var securityPatterns = []securityPattern{
	{
		re:          regexp.MustCompile(`(?i)password\s*=\s*["'][^"']+["']`),
		name:        "hardcoded_password",
		description: "Possible hardcoded password",
	},
	{
		re:          regexp.MustCompile(`(?i)api[_-]?key\s*=\s*["'][^"']+["']`),
		name:        "hardcoded_api_key",
		description: "Possible hardcoded API key",
	},
	{
		re:          regexp.MustCompile(`(?i)secret\s*=\s*["'][^"']+["']`),
		name:        "hardcoded_secret",
		description: "Possible hardcoded secret",
	},
	{
		re:          regexp.MustCompile(`(?i)(?:SELECT|INSERT|UPDATE|DELETE)[^"']*["']\s*\+\s*\w+`),
		name:        "sql_concatenation",
		description: "SQL built by string concatenation",
	},
}

// ScanSecurity runs the security patterns over fetched file content
func ScanSecurity(files []gh.RepoFile) []models.SecurityFinding {
	var findings []models.SecurityFinding
	for _, file := range files {
		for _, pattern := range securityPatterns {
			if pattern.re.MatchString(file.Content) {
				findings = append(findings, models.SecurityFinding{
					File:        file.Path,
					Pattern:     pattern.name,
					Description: pattern.description,
				})
			}
		}
	}
	return findings
}

// SecurityScore converts findings to a 0-100 score: 10 points off per
// finding, floored at zero
func SecurityScore(findings []models.SecurityFinding) float64 {
	score := 100.0 - float64(len(findings))*10.0
	if score < 0 {
		score = 0
	}
	return score
}
