package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribo/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// RepoFile represents a file from a GitHub repository
type RepoFile struct {
	Path    string // Full path: src/components/Button.tsx
	Folder  string // Parent folder: src/components
	Name    string // File name: Button.tsx
	SHA     string // File SHA
	Size    int    // File size in bytes
	Content string // Decoded content (for text files)
	URL     string // GitHub URL
}

// RepoInfo carries repository metadata used by the analyze stage
type RepoInfo struct {
	Owner         string
	Name          string
	Description   string
	DefaultBranch string
	Language      string
	Topics        []string
}

// Connector wraps the GitHub API client with client-side rate limiting
type Connector struct {
	client  *github.Client
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewConnector creates a GitHub connector. A token is optional; without
// one the client runs unauthenticated with lower rate limits.
func NewConnector(config *common.GitHubConfig, logger arbor.ILogger) *Connector {
	var httpClient *http.Client
	if config.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: config.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &Connector{
		client:  github.NewClient(httpClient),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// TestConnection verifies API access by fetching rate limit info, which
// works for both authenticated and unauthenticated clients
func (c *Connector) TestConnection(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return fmt.Errorf("github connection test failed: %w", err)
	}
	return nil
}

// GetRepoInfo fetches repository metadata including the default branch
func (c *Connector) GetRepoInfo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	r, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}

	info := &RepoInfo{
		Owner:         owner,
		Name:          r.GetName(),
		Description:   r.GetDescription(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
		Topics:        r.Topics,
	}
	if info.DefaultBranch == "" {
		info.DefaultBranch = "main"
	}

	return info, nil
}

// ListTree returns all blob paths in a repo for a given branch
func (c *Connector) ListTree(ctx context.Context, owner, repo, branch string) ([]RepoFile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tree, _, err := c.client.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	var files []RepoFile
	for _, entry := range tree.Entries {
		// Skip directories and submodules
		if entry.GetType() != "blob" {
			continue
		}

		path := entry.GetPath()
		files = append(files, RepoFile{
			Path:   path,
			Folder: filepath.Dir(path),
			Name:   filepath.Base(path),
			SHA:    entry.GetSHA(),
			Size:   entry.GetSize(),
			URL:    fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", owner, repo, branch, path),
		})
	}

	return files, nil
}

// GetFileContent fetches and decodes the content of a single file
func (c *Connector) GetFileContent(ctx context.Context, owner, repo, branch, path string) (*RepoFile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	content, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{
		Ref: branch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file content: %w", err)
	}

	if content == nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	file := &RepoFile{
		Path:   content.GetPath(),
		Folder: filepath.Dir(content.GetPath()),
		Name:   content.GetName(),
		SHA:    content.GetSHA(),
		Size:   content.GetSize(),
		URL:    content.GetHTMLURL(),
	}

	if content.Content != nil {
		decoded, err := base64.StdEncoding.DecodeString(
			strings.ReplaceAll(*content.Content, "\n", ""),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to decode file content: %w", err)
		}
		file.Content = string(decoded)
	}

	return file, nil
}

// ListLanguages returns the language byte counts reported by GitHub
func (c *Connector) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	languages, _, err := c.client.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}
