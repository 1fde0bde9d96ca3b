package common

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL extracts owner and repository name from a GitHub URL.
// Accepts https://github.com/owner/repo with optional .git suffix and
// trailing path segments (tree/branch, blob/..., etc).
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	parsed, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return "", "", fmt.Errorf("invalid repository URL %q: %w", repoURL, err)
	}

	host := strings.ToLower(parsed.Host)
	if host != "github.com" && host != "www.github.com" {
		return "", "", fmt.Errorf("unsupported repository host %q", parsed.Host)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository URL %q missing owner/repo path", repoURL)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	if repo == "" {
		return "", "", fmt.Errorf("repository URL %q missing repository name", repoURL)
	}

	return owner, repo, nil
}

// NormalizeRepoURL returns the canonical form used for duplicate
// detection: https://github.com/{owner}/{repo} lowercased.
func NormalizeRepoURL(repoURL string) (string, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://github.com/%s/%s", strings.ToLower(owner), strings.ToLower(repo)), nil
}
