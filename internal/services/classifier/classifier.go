package classifier

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	gh "github.com/ternarybob/scribo/internal/connectors/github"
	"github.com/ternarybob/scribo/internal/models"
)

// Service performs heuristic repository classification: language,
// frameworks, features, architecture, and project type, from file names
// and file content. Rules are evaluated in fixed order so results are
// deterministic for a given input.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a classifier service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// frameworkRule maps a content/filename keyword to a framework name.
// Rules are ordered; each framework is added at most once.
type frameworkRule struct {
	keyword   string
	framework string
}

var frameworkRules = []frameworkRule{
	{"next", "Next.js"},
	{"react", "React"},
	{"vue", "Vue.js"},
	{"angular", "Angular"},
	{"android", "Android SDK"},
	{"spring", "Spring Boot"},
	{"django", "Django"},
	{"flask", "Flask"},
	{"express", "Express"},
	{"fastapi", "FastAPI"},
	{"rails", "Ruby on Rails"},
	{"laravel", "Laravel"},
}

// featureRule maps a keyword to a user-facing feature label
type featureRule struct {
	keyword string
	feature string
}

var featureRules = []featureRule{
	{"auth", "Authentication"},
	{"login", "Authentication"},
	{"database", "Database Integration"},
	{"sql", "Database Integration"},
	{"api", "API Integration"},
	{"rest", "API Integration"},
	{"websocket", "Real-time Communication"},
	{"test", "Automated Testing"},
	{"docker", "Containerization"},
	{"cache", "Caching"},
	{"queue", "Background Processing"},
	{"cron", "Scheduled Tasks"},
	{"upload", "File Upload"},
	{"search", "Search"},
}

// extensionLanguages maps file extensions to language names for repos
// where the GitHub language listing is empty
var extensionLanguages = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".jsx":   "JavaScript",
	".java":  "Java",
	".kt":    "Kotlin",
	".rb":    "Ruby",
	".rs":    "Rust",
	".c":     "C",
	".cpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
}

// Classify builds a RepositoryAnalysis from a fetch result. The caller
// fills in request identity fields afterwards.
func (s *Service) Classify(fetch *gh.FetchResult, languages map[string]int) *models.RepositoryAnalysis {
	analysis := &models.RepositoryAnalysis{
		Owner:          fetch.Info.Owner,
		Repo:           fetch.Info.Name,
		Description:    fetch.Info.Description,
		Branch:         fetch.Info.DefaultBranch,
		Languages:      languages,
		FileCount:      fetch.TreeSize,
		FetchedFiles:   len(fetch.Files),
		FetchTruncated: fetch.Truncated,
	}

	analysis.PrimaryLanguage = s.primaryLanguage(fetch, languages)
	analysis.Frameworks = s.detectFrameworks(fetch.Files)
	analysis.Features = s.detectFeatures(fetch.Files)
	analysis.Imports = s.extractImports(fetch.Files, analysis.PrimaryLanguage)
	analysis.Architecture = s.detectArchitecture(fetch.Files, analysis.Frameworks)
	analysis.ProjectType = s.projectType(analysis.Frameworks, analysis.PrimaryLanguage)
	analysis.Complexity = s.assessComplexity(analysis)

	findings := ScanSecurity(fetch.Files)
	analysis.Security = findings
	analysis.SecurityScore = SecurityScore(findings)

	s.logger.Debug().
		Str("repo", analysis.Owner+"/"+analysis.Repo).
		Str("language", analysis.PrimaryLanguage).
		Str("project_type", analysis.ProjectType).
		Str("complexity", analysis.Complexity).
		Int("frameworks", len(analysis.Frameworks)).
		Msg("Repository classified")

	return analysis
}

// primaryLanguage picks the dominant language from the GitHub language
// byte counts, falling back to extension counting over fetched files
func (s *Service) primaryLanguage(fetch *gh.FetchResult, languages map[string]int) string {
	if fetch.Info.Language != "" {
		return fetch.Info.Language
	}

	if len(languages) > 0 {
		type langCount struct {
			name  string
			bytes int
		}
		counts := make([]langCount, 0, len(languages))
		for name, b := range languages {
			counts = append(counts, langCount{name, b})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].bytes != counts[j].bytes {
				return counts[i].bytes > counts[j].bytes
			}
			return counts[i].name < counts[j].name
		})
		return counts[0].name
	}

	extCounts := make(map[string]int)
	for _, file := range fetch.Files {
		if lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(file.Path))]; ok {
			extCounts[lang]++
		}
	}
	best, bestCount := "Unknown", 0
	for lang, count := range extCounts {
		if count > bestCount || (count == bestCount && lang < best) {
			best, bestCount = lang, count
		}
	}
	return best
}

// detectFrameworks scans file names and content for framework keywords
func (s *Service) detectFrameworks(files []gh.RepoFile) []string {
	corpus := buildCorpus(files)

	var frameworks []string
	seen := make(map[string]bool)
	for _, rule := range frameworkRules {
		if seen[rule.framework] {
			continue
		}
		if strings.Contains(corpus, rule.keyword) {
			frameworks = append(frameworks, rule.framework)
			seen[rule.framework] = true
		}
	}
	return frameworks
}

// detectFeatures scans file names and content for feature keywords
func (s *Service) detectFeatures(files []gh.RepoFile) []string {
	corpus := buildCorpus(files)

	var features []string
	seen := make(map[string]bool)
	for _, rule := range featureRules {
		if seen[rule.feature] {
			continue
		}
		if strings.Contains(corpus, rule.keyword) {
			features = append(features, rule.feature)
			seen[rule.feature] = true
		}
	}
	return features
}

// buildCorpus joins lowercased file names and contents for keyword scans
func buildCorpus(files []gh.RepoFile) string {
	var sb strings.Builder
	for _, file := range files {
		sb.WriteString(strings.ToLower(file.Path))
		sb.WriteByte('\n')
		sb.WriteString(strings.ToLower(file.Content))
		sb.WriteByte('\n')
	}
	return sb.String()
}

var (
	pythonImportRe = regexp.MustCompile(`(?m)^\s*(?:from\s+([\w\.]+)\s+import|import\s+([\w\.]+))`)
	jsImportRe     = regexp.MustCompile(`(?m)(?:import\s+.*?from\s+['"]([^'"]+)['"]|require\(['"]([^'"]+)['"]\))`)
	goImportRe     = regexp.MustCompile(`(?m)^\s*(?:import\s+)?"([\w\./\-]+)"`)
)

// extractImports pulls top-level import names from fetched source files
func (s *Service) extractImports(files []gh.RepoFile, language string) []string {
	seen := make(map[string]bool)
	var imports []string

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		// Keep the top-level module name only
		if idx := strings.IndexAny(name, "./"); idx > 0 {
			name = name[:idx]
		}
		if name != "" && !seen[name] {
			seen[name] = true
			imports = append(imports, name)
		}
	}

	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file.Path)) {
		case ".py":
			for _, m := range pythonImportRe.FindAllStringSubmatch(file.Content, -1) {
				if m[1] != "" {
					add(m[1])
				} else {
					add(m[2])
				}
			}
		case ".js", ".ts", ".tsx", ".jsx":
			for _, m := range jsImportRe.FindAllStringSubmatch(file.Content, -1) {
				if m[1] != "" {
					add(m[1])
				} else {
					add(m[2])
				}
			}
		case ".go":
			for _, m := range goImportRe.FindAllStringSubmatch(file.Content, -1) {
				add(m[1])
			}
		}
		if len(imports) >= 50 {
			break
		}
	}

	return imports
}

// detectArchitecture infers a coarse architecture label from layout
func (s *Service) detectArchitecture(files []gh.RepoFile, frameworks []string) string {
	hasDocker := false
	hasCompose := false
	dirs := make(map[string]bool)
	for _, file := range files {
		name := strings.ToLower(file.Name)
		if name == "dockerfile" {
			hasDocker = true
		}
		if strings.HasPrefix(name, "docker-compose") {
			hasCompose = true
		}
		if idx := strings.Index(file.Path, "/"); idx > 0 {
			dirs[file.Path[:idx]] = true
		}
	}

	switch {
	case hasCompose:
		return "Multi-service (docker-compose)"
	case hasDocker:
		return "Containerized service"
	case len(dirs) >= 4:
		return "Modular/layered"
	case len(frameworks) > 0:
		return "Framework-based"
	default:
		return "Single module"
	}
}

// projectType applies the classification cascade: mobile first, then web
// application frameworks, then server frameworks, then language defaults
func (s *Service) projectType(frameworks []string, language string) string {
	has := func(name string) bool {
		for _, f := range frameworks {
			if f == name {
				return true
			}
		}
		return false
	}

	switch {
	case has("Android SDK"):
		return "Mobile Application"
	case has("React"), has("Next.js"), has("Vue.js"), has("Angular"):
		return "Web Application"
	case has("Spring Boot"), has("Django"), has("Flask"), has("Express"),
		has("FastAPI"), has("Ruby on Rails"), has("Laravel"):
		return "Web Service"
	case language == "Go" || language == "Rust" || language == "C":
		return "System Tool"
	default:
		return "Software Application"
	}
}

// assessComplexity bands the repository into simple/moderate/complex.
// The band feeds the human-review gate decision.
func (s *Service) assessComplexity(analysis *models.RepositoryAnalysis) string {
	score := len(analysis.Frameworks)*2 + len(analysis.Features)
	if analysis.FileCount > 100 {
		score += 3
	} else if analysis.FileCount > 30 {
		score += 1
	}

	switch {
	case score >= 8:
		return "complex"
	case score >= 4:
		return "moderate"
	default:
		return "simple"
	}
}
