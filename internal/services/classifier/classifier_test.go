package classifier

import (
	"testing"

	"github.com/ternarybob/scribo/internal/common"
	gh "github.com/ternarybob/scribo/internal/connectors/github"
)

func fetchResultOf(info *gh.RepoInfo, files ...gh.RepoFile) *gh.FetchResult {
	return &gh.FetchResult{
		Info:     info,
		Files:    files,
		TreeSize: len(files),
	}
}

func TestClassifyReactNextProject(t *testing.T) {
	svc := NewService(common.GetLogger())

	fetch := fetchResultOf(
		&gh.RepoInfo{Owner: "acme", Name: "dashboard", Language: "TypeScript", DefaultBranch: "main"},
		gh.RepoFile{Path: "package.json", Name: "package.json", Content: `{"dependencies":{"react":"^18.0.0","next":"14.0.0"}}`},
		gh.RepoFile{Path: "next.config.js", Name: "next.config.js", Content: "module.exports = {}"},
		gh.RepoFile{Path: "src/auth/login.tsx", Name: "login.tsx", Content: "import React from 'react'"},
	)

	analysis := svc.Classify(fetch, nil)

	if analysis.ProjectType != "Web Application" {
		t.Errorf("project type: got %q, want %q", analysis.ProjectType, "Web Application")
	}
	if analysis.PrimaryLanguage != "TypeScript" {
		t.Errorf("language: got %q, want TypeScript", analysis.PrimaryLanguage)
	}

	wantFrameworks := map[string]bool{"Next.js": true, "React": true}
	for _, fw := range analysis.Frameworks {
		delete(wantFrameworks, fw)
	}
	if len(wantFrameworks) != 0 {
		t.Errorf("missing frameworks: %v (got %v)", wantFrameworks, analysis.Frameworks)
	}

	hasAuth := false
	for _, feat := range analysis.Features {
		if feat == "Authentication" {
			hasAuth = true
		}
	}
	if !hasAuth {
		t.Errorf("expected Authentication feature, got %v", analysis.Features)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	svc := NewService(common.GetLogger())

	fetch := fetchResultOf(
		&gh.RepoInfo{Owner: "acme", Name: "svc", Language: "Python", DefaultBranch: "main"},
		gh.RepoFile{Path: "requirements.txt", Name: "requirements.txt", Content: "django\nflask"},
		gh.RepoFile{Path: "app/views.py", Name: "views.py", Content: "from django import forms"},
	)

	first := svc.Classify(fetch, nil)
	for i := 0; i < 10; i++ {
		again := svc.Classify(fetch, nil)
		if len(again.Frameworks) != len(first.Frameworks) {
			t.Fatalf("framework count varies between runs")
		}
		for j := range first.Frameworks {
			if again.Frameworks[j] != first.Frameworks[j] {
				t.Fatalf("framework order varies: %v vs %v", first.Frameworks, again.Frameworks)
			}
		}
		if again.ProjectType != first.ProjectType {
			t.Fatalf("project type varies: %q vs %q", first.ProjectType, again.ProjectType)
		}
	}

	if first.ProjectType != "Web Service" {
		t.Errorf("project type: got %q, want Web Service", first.ProjectType)
	}
}

func TestSecurityScore(t *testing.T) {
	files := []gh.RepoFile{
		{Path: "config.py", Content: `password = "hunter2"` + "\n" + `api_key = "sk-123"`},
		{Path: "db.py", Content: `query = "SELECT * FROM users WHERE id=" + user_id`},
	}

	findings := ScanSecurity(files)
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d: %v", len(findings), findings)
	}
	if got := SecurityScore(findings); got != 70 {
		t.Errorf("score: got %v, want 70", got)
	}

	// Floor at zero
	many := make([]gh.RepoFile, 0)
	for i := 0; i < 12; i++ {
		many = append(many, gh.RepoFile{Path: "f.py", Content: `password = "x"`})
	}
	if got := SecurityScore(ScanSecurity(many)); got != 0 {
		t.Errorf("score floor: got %v, want 0", got)
	}
}

func TestExtractImportsPython(t *testing.T) {
	svc := NewService(common.GetLogger())
	files := []gh.RepoFile{
		{Path: "app.py", Content: "import os\nfrom django.http import HttpResponse\nimport requests"},
	}
	imports := svc.extractImports(files, "Python")

	want := map[string]bool{"os": true, "django": true, "requests": true}
	for _, imp := range imports {
		delete(want, imp)
	}
	if len(want) != 0 {
		t.Errorf("missing imports: %v (got %v)", want, imports)
	}
}
