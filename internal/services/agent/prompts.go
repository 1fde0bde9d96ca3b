package agent

import (
	"fmt"
	"strings"

	"github.com/ternarybob/scribo/internal/models"
)

// reasoningPrompt asks the model to assess the current draft and plan the
// next refinement actions as structured JSON
func reasoningPrompt(cycle, maxCycles int, rc *models.RunContext) string {
	analysis := rc.Analysis

	var history []string
	for _, record := range rc.Cycles {
		history = append(history, fmt.Sprintf("%.1f", record.Score))
	}

	var filled, empty []string
	for _, key := range models.SectionKeys {
		if rc.Draft.Get(key) != "" {
			filled = append(filled, key)
		} else {
			empty = append(empty, key)
		}
	}

	return fmt.Sprintf(`You are an expert technical writer refining README documentation. This is cycle %d of %d.

PROJECT CONTEXT:
- Type: %s
- Language: %s
- Frameworks: %s
- Complexity: %s
- Target audience: developers

DRAFT STATE:
- Sections with content: %s
- Empty sections: %s

QUALITY HISTORY: [%s]

Plan the next refinement actions. Prefer filling empty essential sections first, then improving language and validating quality. Use active voice and engaging, specific descriptions; keep technical claims accurate.

Respond with JSON only:
{
  "analysis": "your reasoning about the current draft quality",
  "action_plan": [
    {
      "type": "analyze_structure|enhance_content|validate_quality|generate_section|optimize_language",
      "priority": 1,
      "params": {"section": "target_section_key", "focus": "engagement|clarity|technical_depth|professional_tone"}
    }
  ],
  "confidence": 0.0
}`,
		cycle, maxCycles,
		analysis.ProjectType, analysis.PrimaryLanguage,
		strings.Join(analysis.Frameworks, ", "), analysis.Complexity,
		strings.Join(filled, ", "), strings.Join(empty, ", "),
		strings.Join(history, ", "))
}

// sectionPrompt asks the model to write one README section
func sectionPrompt(section, focus string, analysis *models.RepositoryAnalysis) string {
	return fmt.Sprintf(`Write the %q section of a README for %s, a %s written in %s.

Frameworks: %s
Features: %s
Focus: %s

Requirements:
- Markdown body only, no heading line
- Active voice with specific, accurate technical detail
- Scannable formatting: bullet points and code blocks where they help
- No placeholder text

Respond with the section content only.`,
		section, analysis.Repo, analysis.ProjectType, analysis.PrimaryLanguage,
		strings.Join(analysis.Frameworks, ", "),
		strings.Join(analysis.Features, ", "),
		orFocus(focus))
}

// enhancePrompt asks the model to rewrite a section more engagingly
// without changing its technical claims
func enhancePrompt(section, content string, analysis *models.RepositoryAnalysis) string {
	return fmt.Sprintf(`Rewrite this %q section of a README for %s (%s, %s) to be more engaging while keeping every technical claim accurate.

CURRENT CONTENT:
%s

Guidelines:
- Active voice, strong verbs, concrete benefits
- Keep the same structure and length; do not invent features
- Markdown body only, no heading line

Respond with the rewritten content only.`,
		section, analysis.Repo, analysis.ProjectType, analysis.PrimaryLanguage, content)
}

// optimizePrompt asks the model to polish language for a focus area
func optimizePrompt(content, focus string) string {
	return fmt.Sprintf(`Polish the following README content for %s. Preserve structure, headings, badges, and all technical claims. Improve word choice, voice, and readability only.

CONTENT:
%s

Respond with the polished content only.`, orFocus(focus), content)
}

func orFocus(focus string) string {
	if focus == "" {
		return "overall quality"
	}
	return focus
}
