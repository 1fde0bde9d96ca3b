package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribo/internal/models"
)

// sectionHeading maps draft section keys to their rendered headings
var sectionHeadings = map[string]string{
	models.SectionTechnicalStack:   "## 🧰 Technical Stack",
	models.SectionFeatures:         "## ✨ Features",
	models.SectionInstallation:     "## 📦 Installation",
	models.SectionUsage:            "## 💻 Usage",
	models.SectionArchitecture:     "## 🏗️ Architecture",
	models.SectionAPIDocumentation: "## 📚 API Documentation",
	models.SectionDevelopment:      "## 🛠️ Development",
	models.SectionDeployment:       "## 🚀 Deployment",
	models.SectionContributing:     "## 🤝 Contributing",
	models.SectionLicenseInfo:      "## 📄 License",
}

// tocEntries drives the table of contents in render order
var tocEntries = []struct {
	title  string
	anchor string
}{
	{"🎯 Overview", "#-overview"},
	{"🧰 Technical Stack", "#-technical-stack"},
	{"✨ Features", "#-features"},
	{"📦 Installation", "#-installation"},
	{"💻 Usage", "#-usage"},
	{"🏗️ Architecture", "#️-architecture"},
	{"📚 API Documentation", "#-api-documentation"},
	{"🛠️ Development", "#️-development"},
	{"🚀 Deployment", "#-deployment"},
	{"🤝 Contributing", "#-contributing"},
	{"📄 License", "#-license"},
}

// Engine renders a DraftStructure into a complete README markdown
// document: header with badges, table of contents, sections in canonical
// order, and a generation footer.
type Engine struct {
	logger arbor.ILogger
	model  string
}

// NewEngine creates a README engine. The model name appears in the footer.
func NewEngine(model string, logger arbor.ILogger) *Engine {
	if model == "" {
		model = "AI"
	}
	return &Engine{logger: logger, model: model}
}

// Render produces the full README document from an analysis and draft.
// Empty sections receive generated default content so the document is
// always complete.
func (e *Engine) Render(analysis *models.RepositoryAnalysis, draft *models.DraftStructure) string {
	draft.Normalize()

	var parts []string
	parts = append(parts, e.renderHeader(analysis, draft))
	parts = append(parts, e.renderTOC())
	parts = append(parts, e.renderOverview(analysis, draft))

	for _, key := range models.SectionKeys {
		if key == models.SectionProjectOverview {
			continue
		}
		parts = append(parts, e.renderSection(key, analysis, draft))
	}

	parts = append(parts, e.renderFooter())

	readme := strings.Join(parts, "\n\n")
	e.logger.Debug().
		Str("repo", analysis.Owner+"/"+analysis.Repo).
		Int("length", len(readme)).
		Msg("README rendered")

	return readme
}

// renderHeader emits the title, tagline, and badge line
func (e *Engine) renderHeader(analysis *models.RepositoryAnalysis, draft *models.DraftStructure) string {
	var sb strings.Builder
	sb.WriteString("# " + analysis.Repo + "\n\n")

	tagline := analysis.Description
	if tagline == "" {
		tagline = fmt.Sprintf("A %s built with %s", analysis.ProjectType, analysis.PrimaryLanguage)
	}
	sb.WriteString("> " + tagline + "\n\n")

	sb.WriteString(badgeLine(analysis.PrimaryLanguage, analysis.Frameworks))
	return sb.String()
}

// renderTOC emits the table of contents
func (e *Engine) renderTOC() string {
	var sb strings.Builder
	sb.WriteString("## 📋 Table of Contents\n\n")
	for _, entry := range tocEntries {
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", entry.title, entry.anchor))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderOverview emits the overview section, falling back to a sentence
// built from the classification when the draft section is empty
func (e *Engine) renderOverview(analysis *models.RepositoryAnalysis, draft *models.DraftStructure) string {
	content := draft.Get(models.SectionProjectOverview)
	if content == "" {
		content = fmt.Sprintf("%s is a %s written in %s.", analysis.Repo, strings.ToLower(analysis.ProjectType), analysis.PrimaryLanguage)
	}
	return "## 🎯 Overview\n\n" + content
}

// renderSection emits one draft section with its heading and default
// content when the draft is empty
func (e *Engine) renderSection(key string, analysis *models.RepositoryAnalysis, draft *models.DraftStructure) string {
	heading := sectionHeadings[key]
	content := draft.Get(key)
	if content == "" {
		content = e.defaultContent(key, analysis)
	}
	return heading + "\n\n" + content
}

// defaultContent produces serviceable content for sections the LLM left
// empty, from the classification results
func (e *Engine) defaultContent(key string, analysis *models.RepositoryAnalysis) string {
	switch key {
	case models.SectionTechnicalStack:
		stack := analysis.TechStack()
		if len(stack) == 0 {
			return "See the repository for technology details."
		}
		var sb strings.Builder
		for _, tech := range stack {
			sb.WriteString("- " + tech + "\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	case models.SectionFeatures:
		if len(analysis.Features) == 0 {
			return "- Core functionality for users and developers"
		}
		var sb strings.Builder
		for _, feature := range analysis.Features {
			sb.WriteString("- " + EnhanceFeature(feature) + "\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	case models.SectionInstallation:
		return "1. Clone the repository\n2. Install dependencies\n3. Run the application"
	case models.SectionUsage:
		return "Follow the installation steps and refer to the documentation for usage instructions."
	case models.SectionArchitecture:
		if analysis.Architecture != "" {
			return analysis.Architecture + "."
		}
		return "See the source tree for architecture details."
	case models.SectionAPIDocumentation:
		return "API documentation is available in the source code."
	case models.SectionDevelopment:
		return "Set up a local development environment by cloning the repository and installing dependencies."
	case models.SectionDeployment:
		return "Refer to the repository for deployment configuration."
	case models.SectionContributing:
		return "Contributions are welcome! Please feel free to submit a Pull Request."
	case models.SectionLicenseInfo:
		return "Please check the repository for license information."
	default:
		return ""
	}
}

// renderFooter emits the generation footer
func (e *Engine) renderFooter() string {
	return fmt.Sprintf("---\n\n*Generated with ❤️ by %s*\n\n*Last updated: %s*",
		e.model, time.Now().UTC().Format("January 2, 2006"))
}

// EnhanceFeature rewrites a bare feature label into an engaging bullet
func EnhanceFeature(feature string) string {
	lower := strings.ToLower(feature)
	switch {
	case strings.Contains(lower, "authentication") || strings.Contains(lower, "auth"):
		return "🔐 **Secure Authentication** - Enterprise-grade user authentication system"
	case strings.Contains(lower, "jwt"):
		return "🎫 **JWT Tokens** - Stateless authentication with JSON Web Tokens"
	case strings.Contains(lower, "api"):
		return "🌐 **RESTful API** - Comprehensive API endpoints for seamless integration"
	case strings.Contains(lower, "database"):
		return "💾 **Database Integration** - Robust data persistence and management"
	case strings.Contains(lower, "testing") || strings.Contains(lower, "test"):
		return "🧪 **Testing Suite** - Comprehensive test coverage for reliability"
	default:
		return fmt.Sprintf("🚀 **%s** - Advanced functionality for enhanced user experience", feature)
	}
}

// Fallback produces the minimal README used when generation fails
// entirely
func Fallback(analysis *models.RepositoryAnalysis) string {
	name := analysis.Repo
	if name == "" {
		name = "Project"
	}
	projectType := analysis.ProjectType
	if projectType == "" {
		projectType = "Software Application"
	}
	language := analysis.PrimaryLanguage
	if language == "" {
		language = "Unknown"
	}

	return fmt.Sprintf(`# %s

> A %s built with %s

## Overview

This project is a %s that provides core functionality for users and developers.

## Installation

1. Clone the repository
2. Install dependencies
3. Run the application

## Usage

Follow the installation steps and refer to the documentation for usage instructions.

## Contributing

Contributions are welcome! Please feel free to submit a Pull Request.

## License

Please check the repository for license information.

---

*Generated by Scribo*
`, name, projectType, language, projectType)
}
