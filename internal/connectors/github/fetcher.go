package github

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribo/internal/common"
)

// FetchResult is the bounded snapshot of repository content the analyze
// stage works from
type FetchResult struct {
	Info      *RepoInfo
	Files     []RepoFile
	TreeSize  int
	Truncated bool
}

// Fetcher selects and downloads a bounded, prioritized subset of a
// repository's files. Manifest and build files are fetched first, then
// source files, up to the configured file cap with per-file truncation.
type Fetcher struct {
	connector *Connector
	config    *common.GitHubConfig
	logger    arbor.ILogger
}

// NewFetcher creates a repository fetcher
func NewFetcher(connector *Connector, config *common.GitHubConfig, logger arbor.ILogger) *Fetcher {
	return &Fetcher{
		connector: connector,
		config:    config,
		logger:    logger,
	}
}

// Fetch downloads the prioritized file subset for a repository. When the
// tree listing fails it falls back to fetching the README alone so the
// pipeline can still produce a result.
func (f *Fetcher) Fetch(ctx context.Context, owner, repo, branch string) (*FetchResult, error) {
	info, err := f.connector.GetRepoInfo(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if branch == "" {
		branch = info.DefaultBranch
	}

	tree, err := f.connector.ListTree(ctx, owner, repo, branch)
	if err != nil {
		f.logger.Warn().
			Err(err).
			Str("repo", owner+"/"+repo).
			Msg("Tree listing failed, falling back to README only")
		return f.fetchReadmeFallback(ctx, info, owner, repo, branch)
	}

	selected := SelectFiles(tree, f.config)

	result := &FetchResult{
		Info:      info,
		TreeSize:  len(tree),
		Truncated: len(selected) < countCandidates(tree, f.config),
	}

	maxBytes := f.config.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = 2500
	}

	for _, candidate := range selected {
		file, err := f.connector.GetFileContent(ctx, owner, repo, branch, candidate.Path)
		if err != nil {
			// Individual file failures never abort the fetch
			f.logger.Debug().
				Err(err).
				Str("path", candidate.Path).
				Msg("Skipping unfetchable file")
			continue
		}
		if len(file.Content) > maxBytes {
			file.Content = file.Content[:maxBytes]
		}
		result.Files = append(result.Files, *file)
	}

	f.logger.Info().
		Str("repo", owner+"/"+repo).
		Int("tree_size", len(tree)).
		Int("fetched", len(result.Files)).
		Bool("truncated", result.Truncated).
		Msg("Repository fetch complete")

	return result, nil
}

// fetchReadmeFallback fetches only the repository README
func (f *Fetcher) fetchReadmeFallback(ctx context.Context, info *RepoInfo, owner, repo, branch string) (*FetchResult, error) {
	result := &FetchResult{Info: info, Truncated: true}

	for _, name := range []string{"README.md", "readme.md", "README"} {
		file, err := f.connector.GetFileContent(ctx, owner, repo, branch, name)
		if err != nil {
			continue
		}
		result.Files = append(result.Files, *file)
		break
	}

	return result, nil
}

// SelectFiles ranks tree entries and returns up to the configured cap:
// priority files first in their configured order, then source files by
// configured extension. Excluded directories and binary files are dropped.
func SelectFiles(tree []RepoFile, config *common.GitHubConfig) []RepoFile {
	maxFiles := config.MaxFiles
	if maxFiles <= 0 {
		maxFiles = 30
	}

	priorityRank := make(map[string]int, len(config.PriorityFiles))
	for i, name := range config.PriorityFiles {
		priorityRank[strings.ToLower(name)] = i
	}

	extAllowed := make(map[string]bool, len(config.CodeExtensions))
	for _, ext := range config.CodeExtensions {
		extAllowed[strings.ToLower(ext)] = true
	}

	var priority, source []RepoFile
	for _, file := range tree {
		if isExcluded(file.Path, config.ExcludeDirs) || isBinaryExtension(file.Path) {
			continue
		}
		if _, ok := priorityRank[strings.ToLower(file.Name)]; ok {
			priority = append(priority, file)
			continue
		}
		if extAllowed[strings.ToLower(filepath.Ext(file.Path))] {
			source = append(source, file)
		}
	}

	// Stable order: configured priority rank, then original tree order
	for i := 1; i < len(priority); i++ {
		for j := i; j > 0; j-- {
			a := priorityRank[strings.ToLower(priority[j-1].Name)]
			b := priorityRank[strings.ToLower(priority[j].Name)]
			if b < a {
				priority[j-1], priority[j] = priority[j], priority[j-1]
			} else {
				break
			}
		}
	}

	selected := append(priority, source...)
	if len(selected) > maxFiles {
		selected = selected[:maxFiles]
	}
	return selected
}

// countCandidates returns how many tree entries would qualify without the
// file cap
func countCandidates(tree []RepoFile, config *common.GitHubConfig) int {
	extAllowed := make(map[string]bool, len(config.CodeExtensions))
	for _, ext := range config.CodeExtensions {
		extAllowed[strings.ToLower(ext)] = true
	}
	priorityNames := make(map[string]bool, len(config.PriorityFiles))
	for _, name := range config.PriorityFiles {
		priorityNames[strings.ToLower(name)] = true
	}

	count := 0
	for _, file := range tree {
		if isExcluded(file.Path, config.ExcludeDirs) || isBinaryExtension(file.Path) {
			continue
		}
		if priorityNames[strings.ToLower(file.Name)] || extAllowed[strings.ToLower(filepath.Ext(file.Path))] {
			count++
		}
	}
	return count
}

// isExcluded checks whether a path falls under an excluded directory
func isExcluded(path string, excludeDirs []string) bool {
	for _, dir := range excludeDirs {
		if strings.HasPrefix(path, dir) || strings.Contains(path, "/"+dir) {
			return true
		}
	}
	return false
}

// isBinaryExtension reports whether a path looks like a binary file
func isBinaryExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg", ".webp",
		".woff", ".woff2", ".ttf", ".eot", ".otf",
		".zip", ".tar", ".gz", ".bz2", ".7z", ".rar",
		".exe", ".dll", ".so", ".dylib", ".bin",
		".pdf", ".doc", ".docx", ".xls", ".xlsx",
		".mp3", ".mp4", ".avi", ".mov", ".wav",
		".pyc", ".class", ".jar", ".war", ".lock":
		return true
	}
	return false
}
