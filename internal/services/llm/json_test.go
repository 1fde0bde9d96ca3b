package llm

import "testing"

type probe struct {
	Action string `json:"action"`
	Score  int    `json:"score"`
}

func TestExtractJSONStrict(t *testing.T) {
	var p probe
	if err := ExtractJSON(`{"action":"enhance_content","score":80}`, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Action != "enhance_content" || p.Score != 80 {
		t.Errorf("got %+v", p)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	var p probe
	response := "Here is my reasoning.\n```json\n{\"action\": \"validate_quality\", \"score\": 75}\n```\nDone."
	if err := ExtractJSON(response, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Action != "validate_quality" {
		t.Errorf("got %+v", p)
	}
}

func TestExtractJSONEmbedded(t *testing.T) {
	var p probe
	response := `I think the best action is {"action": "generate_section", "score": 60} because the draft is thin.`
	if err := ExtractJSON(response, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Action != "generate_section" {
		t.Errorf("got %+v", p)
	}
}

func TestExtractJSONHandlesNestedBraces(t *testing.T) {
	var out map[string]interface{}
	response := `prefix {"outer": {"inner": "value with } brace"}} suffix`
	if err := ExtractJSON(response, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out["outer"]; !ok {
		t.Errorf("missing outer key: %v", out)
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	var p probe
	if err := ExtractJSON("no json here at all", &p); err == nil {
		t.Fatal("expected error for response without JSON")
	}
}
