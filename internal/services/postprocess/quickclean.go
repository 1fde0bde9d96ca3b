package postprocess

import "strings"

// quick-clean tech indicators checked on highlight lines
var quickCleanTechs = []string{
	"typescript", "javascript", "python", "react", "next.js",
	"django", "express", "secure", "go", "java",
}

// QuickClean is the fast cleanup path: it removes obvious repetitive
// technology highlight lines that follow badge lines, without the full
// review pass. Safe to run on already-clean content.
func QuickClean(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	i := 0
	for i < len(lines) {
		line := lines[i]
		isBadgeLine := strings.Contains(line, "img.shields.io") ||
			(strings.HasPrefix(line, "![") && strings.Contains(line, "](https://"))

		out = append(out, line)
		i++

		if !isBadgeLine {
			continue
		}

		lookAhead := 0
		for i < len(lines) && lookAhead < 5 {
			next := lines[i]
			if isRepetitiveTechLine(next) {
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

// isRepetitiveTechLine flags heading lines that restate technology names
// with bold/bullet formatting, e.g. "### **TypeScript** • **React**"
func isRepetitiveTechLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if !strings.Contains(line, "###") || !strings.Contains(line, "**") {
		return false
	}
	if !strings.Contains(line, "•") && !strings.Contains(line, "|") {
		return false
	}

	lower := strings.ToLower(line)
	found := 0
	for _, tech := range quickCleanTechs {
		if strings.Contains(lower, tech) {
			found++
		}
	}
	return found >= 2
}
