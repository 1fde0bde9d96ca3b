package github

import (
	"testing"

	"github.com/ternarybob/scribo/internal/common"
)

func treeOf(paths ...string) []RepoFile {
	files := make([]RepoFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, RepoFile{
			Path: p,
			Name: p[lastSlash(p)+1:],
		})
	}
	return files
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func TestSelectFilesPriorityOrdering(t *testing.T) {
	config := &common.GitHubConfig{
		MaxFiles:       30,
		PriorityFiles:  []string{"package.json", "requirements.txt", "Dockerfile"},
		CodeExtensions: []string{".go", ".py"},
		ExcludeDirs:    []string{"node_modules/", "vendor/"},
	}

	tree := treeOf(
		"main.go",
		"Dockerfile",
		"requirements.txt",
		"src/app.py",
		"package.json",
	)

	selected := SelectFiles(tree, config)
	if len(selected) != 5 {
		t.Fatalf("expected 5 files, got %d", len(selected))
	}

	// Priority files first, in configured order
	wantOrder := []string{"package.json", "requirements.txt", "Dockerfile", "main.go", "src/app.py"}
	for i, want := range wantOrder {
		if selected[i].Path != want {
			t.Errorf("position %d: got %q, want %q", i, selected[i].Path, want)
		}
	}
}

func TestSelectFilesExcludesAndCaps(t *testing.T) {
	config := &common.GitHubConfig{
		MaxFiles:       3,
		PriorityFiles:  []string{"package.json"},
		CodeExtensions: []string{".go"},
		ExcludeDirs:    []string{"node_modules/", "vendor/"},
	}

	tree := treeOf(
		"node_modules/left-pad/index.js",
		"vendor/dep/dep.go",
		"logo.png",
		"a.go",
		"b.go",
		"c.go",
		"d.go",
		"package.json",
	)

	selected := SelectFiles(tree, config)
	if len(selected) != 3 {
		t.Fatalf("expected cap of 3 files, got %d", len(selected))
	}
	if selected[0].Path != "package.json" {
		t.Errorf("expected package.json first, got %q", selected[0].Path)
	}
	for _, f := range selected {
		if f.Path == "logo.png" || f.Path == "vendor/dep/dep.go" {
			t.Errorf("excluded file %q was selected", f.Path)
		}
	}
}

func TestIsBinaryExtension(t *testing.T) {
	if !isBinaryExtension("assets/logo.png") {
		t.Error("png should be binary")
	}
	if isBinaryExtension("main.go") {
		t.Error("go source should not be binary")
	}
}
