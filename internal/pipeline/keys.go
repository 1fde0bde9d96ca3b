package pipeline

import "fmt"

// Artifact store keys per stage
func analysisKey(owner, repo string) string {
	return fmt.Sprintf("readme-analysis/%s/%s.json", owner, repo)
}

func readmeKey(owner, repo string) string {
	return fmt.Sprintf("generated-readmes/%s/%s.md", owner, repo)
}

func reviewDraftKey(owner, repo string) string {
	return fmt.Sprintf("review-drafts/%s/%s.md", owner, repo)
}
