package generator

import "fmt"

// shields.io badge URLs keyed by language name
var languageBadges = map[string]string{
	"JavaScript": "https://img.shields.io/badge/JavaScript-F7DF1E?style=for-the-badge&logo=javascript&logoColor=black",
	"Python":     "https://img.shields.io/badge/Python-3776AB?style=for-the-badge&logo=python&logoColor=white",
	"Java":       "https://img.shields.io/badge/Java-ED8B00?style=for-the-badge&logo=java&logoColor=white",
	"TypeScript": "https://img.shields.io/badge/TypeScript-007ACC?style=for-the-badge&logo=typescript&logoColor=white",
	"Go":         "https://img.shields.io/badge/Go-00ADD8?style=for-the-badge&logo=go&logoColor=white",
	"Rust":       "https://img.shields.io/badge/Rust-000000?style=for-the-badge&logo=rust&logoColor=white",
}

// shields.io badge URLs keyed by framework name
var frameworkBadges = map[string]string{
	"React":       "https://img.shields.io/badge/React-20232A?style=for-the-badge&logo=react&logoColor=61DAFB",
	"Django":      "https://img.shields.io/badge/Django-092E20?style=for-the-badge&logo=django&logoColor=white",
	"Express":     "https://img.shields.io/badge/Express.js-404D59?style=for-the-badge",
	"Next.js":     "https://img.shields.io/badge/Next.js-000000?style=for-the-badge&logo=nextdotjs&logoColor=white",
	"Spring Boot": "https://img.shields.io/badge/Spring_Boot-6DB33F?style=for-the-badge&logo=spring-boot&logoColor=white",
	"Flask":       "https://img.shields.io/badge/Flask-000000?style=for-the-badge&logo=flask&logoColor=white",
	"Vue.js":      "https://img.shields.io/badge/Vue.js-35495E?style=for-the-badge&logo=vuedotjs&logoColor=4FC08D",
	"Angular":     "https://img.shields.io/badge/Angular-DD0031?style=for-the-badge&logo=angular&logoColor=white",
}

// buildStatusBadge is appended to every badge line
const buildStatusBadge = "![Build Status](https://img.shields.io/badge/build-passing-brightgreen)"

// maxFrameworkBadges limits framework badges on the header line
const maxFrameworkBadges = 3

// badgeLine renders the header badge line: language badge, up to three
// framework badges, and the build status badge, space-joined
func badgeLine(primaryLanguage string, frameworks []string) string {
	var badges []string

	if url, ok := languageBadges[primaryLanguage]; ok {
		badges = append(badges, fmt.Sprintf("![%s](%s)", primaryLanguage, url))
	}

	count := 0
	for _, framework := range frameworks {
		if count >= maxFrameworkBadges {
			break
		}
		if url, ok := frameworkBadges[framework]; ok {
			badges = append(badges, fmt.Sprintf("![%s](%s)", framework, url))
			count++
		}
	}

	badges = append(badges, buildStatusBadge)

	line := badges[0]
	for _, b := range badges[1:] {
		line += " " + b
	}
	return line
}
