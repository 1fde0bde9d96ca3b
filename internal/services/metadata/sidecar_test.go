package metadata

import (
	"strings"
	"testing"
)

func TestSidecarRoundTrip(t *testing.T) {
	readme := "# myproject\n\nA tool written in Go.\n"
	sidecar := &Sidecar{
		PrimaryLanguage: "Go",
		ProjectType:     "System Tool",
		TechStack:       []string{"Go", "BadgerDB"},
		Frameworks:      []string{"BadgerDB"},
	}

	stored := Append(readme, sidecar)

	extracted := Extract(stored)
	if extracted == nil {
		t.Fatal("no sidecar extracted")
	}
	if extracted.PrimaryLanguage != "Go" {
		t.Errorf("language: got %q, want Go", extracted.PrimaryLanguage)
	}
	if extracted.ProjectType != "System Tool" {
		t.Errorf("project type: got %q", extracted.ProjectType)
	}
	if len(extracted.TechStack) != 2 || extracted.TechStack[0] != "Go" {
		t.Errorf("tech stack: got %v", extracted.TechStack)
	}

	clean := Strip(stored)
	if strings.Contains(clean, "METADATA") {
		t.Errorf("stripped content still contains METADATA marker:\n%s", clean)
	}
	if !strings.Contains(clean, "# myproject") {
		t.Error("stripped content lost README body")
	}
}

func TestStripWithoutSidecarIsNoop(t *testing.T) {
	readme := "# plain\n\nNo sidecar here.\n"
	if got := Strip(readme); got != readme {
		t.Errorf("strip changed content without sidecar:\n%q", got)
	}
}

func TestExtractMissingReturnsNil(t *testing.T) {
	if Extract("# plain readme") != nil {
		t.Error("expected nil sidecar for plain content")
	}
}

func TestStripUnterminatedBlock(t *testing.T) {
	content := "# repo\n\nbody\n\n---METADATA---\nPRIMARY_LANGUAGE: Go\n"
	clean := Strip(content)
	if strings.Contains(clean, "METADATA") {
		t.Errorf("unterminated block not removed:\n%s", clean)
	}
}
