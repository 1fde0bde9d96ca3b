package postprocess

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
)

// passThreshold is the review score at or above which content passes
const passThreshold = 85.0

// Report summarizes a post-processing pass: what was wrong, what was
// fixed, and the resulting 0-100 formatting quality score.
type Report struct {
	Issues       []string `json:"issues"`
	Fixes        []string `json:"fixes"`
	QualityScore float64  `json:"quality_score"`
	Passed       bool     `json:"passed"`
}

// Reviewer cleans generated README content: removes technology
// repetition after badge lines, drops duplicate sections, and normalizes
// whitespace and list formatting. Review is idempotent; running it on
// its own output returns the same content.
type Reviewer struct {
	logger arbor.ILogger
}

// NewReviewer creates a post-processing reviewer
func NewReviewer(logger arbor.ILogger) *Reviewer {
	return &Reviewer{logger: logger}
}

var (
	badgeNameRe      = regexp.MustCompile(`!\[([^\]]+)\]`)
	sectionHeadingRe = regexp.MustCompile(`(?m)^## (.+)$`)
	excessNewlinesRe = regexp.MustCompile(`\n{4,}`)
	headingSpacingRe = regexp.MustCompile(`([^\n])\n(#{1,6} )`)
	listSpacingRe    = regexp.MustCompile(`\n-([^\s-])`)
	brokenEmojiRe    = regexp.MustCompile(`[ðâ][^a-zA-Z0-9\s]{1,3}`)
	emptyLinkRe      = regexp.MustCompile(`\[([^\]]+)\]\((?:#)?\)`)
	titleRe          = regexp.MustCompile(`(?m)^# (.+)$`)
)

// Review runs all checks and fixes over the content
func (r *Reviewer) Review(content string) (string, *Report) {
	report := &Report{}

	fixed := r.fixRepetition(content, report)
	fixed = r.fixDuplicateSections(fixed, report)
	fixed = r.fixFormatting(fixed, report)
	r.checkStructure(fixed, report)
	r.checkContentQuality(fixed, report)

	report.QualityScore = r.score(fixed, report)
	report.Passed = report.QualityScore >= passThreshold

	r.logger.Debug().
		Int("issues", len(report.Issues)).
		Int("fixes", len(report.Fixes)).
		Float64("score", report.QualityScore).
		Msg("README post-processing complete")

	return fixed, report
}

// fixRepetition removes technology highlight lines that repeat the badge
// line's technologies, scanning up to five lines past each badge line
func (r *Reviewer) fixRepetition(content string, report *Report) string {
	lines := strings.Split(content, "\n")
	var out []string

	i := 0
	for i < len(lines) {
		line := lines[i]
		out = append(out, line)
		i++

		if !strings.Contains(line, "img.shields.io") {
			continue
		}

		badgeTechs := badgeNameRe.FindAllStringSubmatch(line, -1)
		lookAhead := 0
		for i < len(lines) && lookAhead < 5 {
			next := lines[i]
			if isTechRepetitionLine(badgeTechs, next) {
				report.Issues = append(report.Issues, fmt.Sprintf("Technology repetition found after badges: %s", strings.TrimSpace(next)))
				report.Fixes = append(report.Fixes, "Removed redundant technology repetition after badges")
				i++
				lookAhead++
				continue
			}
			if strings.TrimSpace(next) == "" {
				out = append(out, next)
				i++
				lookAhead++
				continue
			}
			break
		}
	}

	return strings.Join(out, "\n")
}

// isTechRepetitionLine reports whether a line restates the badge
// technologies with bold/bullet formatting. More than half the badge
// technologies (and at least two) must appear.
func isTechRepetitionLine(badgeTechs [][]string, line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed == "---" || trimmed == "===" ||
		trimmed == "</div>" || trimmed == `<div align="center">` {
		return false
	}
	if !strings.Contains(line, "**") {
		return false
	}
	if !strings.Contains(line, "•") && !strings.Contains(line, "|") {
		return false
	}

	lower := strings.ToLower(line)
	repeated := 0
	for _, match := range badgeTechs {
		if strings.Contains(lower, strings.ToLower(match[1])) {
			repeated++
		}
	}

	return repeated >= 2 && float64(repeated) >= float64(len(badgeTechs))/2
}

// fixDuplicateSections drops repeated ## sections, keeping the first
// occurrence of each heading
func (r *Reviewer) fixDuplicateSections(content string, report *Report) string {
	seen := make(map[string]bool)
	duplicates := make(map[string]bool)
	for _, match := range sectionHeadingRe.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if seen[name] {
			duplicates[name] = true
			report.Issues = append(report.Issues, fmt.Sprintf("Duplicate section found: %s", name))
		}
		seen[name] = true
	}
	if len(duplicates) == 0 {
		return content
	}
	report.Fixes = append(report.Fixes, "Removed duplicate sections")

	lines := strings.Split(content, "\n")
	var out []string
	kept := make(map[string]bool)
	skipping := false
	for _, line := range lines {
		if match := sectionHeadingRe.FindStringSubmatch(line); match != nil {
			name := match[1]
			if duplicates[name] && kept[name] {
				skipping = true
				continue
			}
			kept[name] = true
			skipping = false
		}
		if !skipping {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// fixFormatting normalizes whitespace, heading spacing, list items, and
// strips broken emoji byte sequences
func (r *Reviewer) fixFormatting(content string, report *Report) string {
	fixed := content

	if brokenEmojiRe.MatchString(fixed) {
		fixed = brokenEmojiRe.ReplaceAllString(fixed, "")
		report.Issues = append(report.Issues, "Broken emoji byte sequences found")
		report.Fixes = append(report.Fixes, "Removed broken emoji sequences")
	}

	if headingSpacingRe.MatchString(fixed) {
		fixed = headingSpacingRe.ReplaceAllString(fixed, "$1\n\n$2")
		report.Issues = append(report.Issues, "Headers without surrounding blank line found")
		report.Fixes = append(report.Fixes, "Added proper spacing around headers")
	}

	if excessNewlinesRe.MatchString(fixed) {
		fixed = excessNewlinesRe.ReplaceAllString(fixed, "\n\n\n")
		report.Issues = append(report.Issues, "Excessive consecutive newlines found")
		report.Fixes = append(report.Fixes, "Collapsed excessive newlines")
	}

	if listSpacingRe.MatchString(fixed) {
		fixed = listSpacingRe.ReplaceAllString(fixed, "\n- $1")
		report.Issues = append(report.Issues, "Malformed list items found")
		report.Fixes = append(report.Fixes, "Fixed list item spacing")
	}

	return fixed
}

// checkStructure records structural issues without modifying content
func (r *Reviewer) checkStructure(content string, report *Report) {
	lower := strings.ToLower(content)

	var missing []string
	for _, section := range []string{"overview", "installation", "usage", "contributing"} {
		if !strings.Contains(lower, section) {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("Missing essential sections: %s", strings.Join(missing, ", ")))
	}

	titles := titleRe.FindAllString(content, -1)
	if len(titles) == 0 {
		report.Issues = append(report.Issues, "No main title (H1) found")
	} else if len(titles) > 1 {
		report.Issues = append(report.Issues, fmt.Sprintf("Multiple main titles found: %d", len(titles)))
	}
}

// checkContentQuality records content-level issues without modifying
// content
func (r *Reviewer) checkContentQuality(content string, report *Report) {
	lower := strings.ToLower(content)
	for _, placeholder := range []string{"lorem ipsum", "placeholder", "tbd", "coming soon", "under construction"} {
		if strings.Contains(lower, placeholder) {
			report.Issues = append(report.Issues, fmt.Sprintf("Placeholder content found: %s", placeholder))
		}
	}

	if matches := emptyLinkRe.FindAllString(content, -1); len(matches) > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("Broken links found: %d instances", len(matches)))
	}
}

// score computes the formatting quality score: base 100, minus 5 per
// issue (capped at 50), plus 2 per fix (capped at 20), with length
// penalties, clamped to [0, 100]
func (r *Reviewer) score(content string, report *Report) float64 {
	base := 100.0

	deduction := float64(len(report.Issues)) * 5
	if deduction > 50 {
		deduction = 50
	}

	bonus := float64(len(report.Fixes)) * 2
	if bonus > 20 {
		bonus = 20
	}

	if len(content) < 1000 {
		base -= 10
	} else if len(content) > 10000 {
		base -= 5
	}

	final := base - deduction + bonus
	if final < 0 {
		return 0
	}
	if final > 100 {
		return 100
	}
	return final
}
