package common

import "testing"

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "plain repo url",
			input:     "https://github.com/golang/go",
			wantOwner: "golang",
			wantRepo:  "go",
		},
		{
			name:      "git suffix",
			input:     "https://github.com/ternarybob/arbor.git",
			wantOwner: "ternarybob",
			wantRepo:  "arbor",
		},
		{
			name:      "trailing path",
			input:     "https://github.com/golang/go/tree/master/src",
			wantOwner: "golang",
			wantRepo:  "go",
		},
		{
			name:      "www host",
			input:     "https://www.github.com/golang/go",
			wantOwner: "golang",
			wantRepo:  "go",
		},
		{
			name:    "non-github host",
			input:   "https://gitlab.com/golang/go",
			wantErr: true,
		},
		{
			name:    "missing repo",
			input:   "https://github.com/golang",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got owner=%q repo=%q", tt.input, owner, repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("got %q/%q, want %q/%q", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestNormalizeRepoURL(t *testing.T) {
	got, err := NormalizeRepoURL("https://github.com/Golang/Go.git")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://github.com/golang/go"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
