package generator

import (
	"strings"
	"testing"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/models"
)

func sampleAnalysis() *models.RepositoryAnalysis {
	return &models.RepositoryAnalysis{
		Owner:           "acme",
		Repo:            "dashboard",
		PrimaryLanguage: "TypeScript",
		Frameworks:      []string{"React", "Next.js"},
		Features:        []string{"Authentication", "API Integration"},
		ProjectType:     "Web Application",
		Architecture:    "Framework-based",
	}
}

func TestRenderProducesAllSections(t *testing.T) {
	engine := NewEngine("claude-sonnet-4-20250514", common.GetLogger())
	draft := models.NewDraftStructure()
	draft.Set(models.SectionProjectOverview, "A dashboard for tracking widgets.")

	readme := engine.Render(sampleAnalysis(), draft)

	for _, heading := range []string{
		"# dashboard",
		"## 📋 Table of Contents",
		"## 🎯 Overview",
		"## 📦 Installation",
		"## 💻 Usage",
		"## 🤝 Contributing",
		"## 📄 License",
	} {
		if !strings.Contains(readme, heading) {
			t.Errorf("missing %q in rendered README", heading)
		}
	}

	if !strings.Contains(readme, "A dashboard for tracking widgets.") {
		t.Error("draft overview content missing")
	}
	if !strings.Contains(readme, "img.shields.io/badge/TypeScript") {
		t.Error("language badge missing")
	}
	if !strings.Contains(readme, "img.shields.io/badge/React") {
		t.Error("framework badge missing")
	}
}

func TestBadgeLineLimitsFrameworks(t *testing.T) {
	line := badgeLine("Python", []string{"Django", "Flask", "React", "Vue.js", "Angular"})

	count := strings.Count(line, "img.shields.io/badge/")
	// 1 language + 3 frameworks + 1 build status
	if count != 5 {
		t.Errorf("expected 5 badges, got %d: %s", count, line)
	}
	if !strings.Contains(line, "build-passing") {
		t.Error("build status badge missing")
	}
}

func TestRenderFillsEmptySections(t *testing.T) {
	engine := NewEngine("", common.GetLogger())
	readme := engine.Render(sampleAnalysis(), models.NewDraftStructure())

	if !strings.Contains(readme, "Secure Authentication") {
		t.Error("expected enhanced feature bullet for empty features section")
	}
	if !strings.Contains(readme, "1. Clone the repository") {
		t.Error("expected default installation steps")
	}
}

func TestFallbackReadme(t *testing.T) {
	readme := Fallback(sampleAnalysis())
	if !strings.Contains(readme, "# dashboard") {
		t.Error("fallback missing title")
	}
	if !strings.Contains(readme, "Web Application") {
		t.Error("fallback missing project type")
	}
	if !strings.Contains(readme, "## License") {
		t.Error("fallback missing license section")
	}
}
