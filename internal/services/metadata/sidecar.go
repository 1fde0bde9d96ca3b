package metadata

import (
	"fmt"
	"strings"

	"github.com/ternarybob/scribo/internal/models"
)

// Sidecar block markers. The block rides at the end of stored READMEs
// and is stripped before serving.
const (
	beginMarker = "---METADATA---"
	endMarker   = "---END_METADATA---"
)

// Sidecar carries the classification facts embedded in a stored README
type Sidecar struct {
	PrimaryLanguage string
	ProjectType     string
	TechStack       []string
	Frameworks      []string
}

// FromAnalysis builds a sidecar from an analysis
func FromAnalysis(analysis *models.RepositoryAnalysis) *Sidecar {
	return &Sidecar{
		PrimaryLanguage: analysis.PrimaryLanguage,
		ProjectType:     analysis.ProjectType,
		TechStack:       analysis.TechStack(),
		Frameworks:      analysis.Frameworks,
	}
}

// Append attaches the sidecar block to README content
func Append(content string, sidecar *Sidecar) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(content, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(beginMarker)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("PRIMARY_LANGUAGE: %s\n", sidecar.PrimaryLanguage))
	sb.WriteString(fmt.Sprintf("PROJECT_TYPE: %s\n", sidecar.ProjectType))
	sb.WriteString(fmt.Sprintf("TECH_STACK: %s\n", strings.Join(sidecar.TechStack, ", ")))
	sb.WriteString(fmt.Sprintf("FRAMEWORKS: %s\n", strings.Join(sidecar.Frameworks, ", ")))
	sb.WriteString(endMarker)
	sb.WriteString("\n")
	return sb.String()
}

// Extract parses the sidecar block out of stored content. Returns nil
// when no block is present.
func Extract(content string) *Sidecar {
	start := strings.Index(content, beginMarker)
	if start < 0 {
		return nil
	}
	end := strings.Index(content[start:], endMarker)
	if end < 0 {
		return nil
	}

	block := content[start+len(beginMarker) : start+end]
	sidecar := &Sidecar{}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "PRIMARY_LANGUAGE":
			sidecar.PrimaryLanguage = value
		case "PROJECT_TYPE":
			sidecar.ProjectType = value
		case "TECH_STACK":
			sidecar.TechStack = splitList(value)
		case "FRAMEWORKS":
			sidecar.Frameworks = splitList(value)
		}
	}

	return sidecar
}

// Strip removes the sidecar block, leaving clean README content
func Strip(content string) string {
	start := strings.Index(content, beginMarker)
	if start < 0 {
		return content
	}
	end := strings.Index(content[start:], endMarker)
	if end < 0 {
		// Unterminated block: drop everything from the marker on
		return strings.TrimRight(content[:start], "\n") + "\n"
	}

	after := content[start+end+len(endMarker):]
	return strings.TrimRight(content[:start], "\n") + "\n" + strings.TrimLeft(after, "\n")
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
