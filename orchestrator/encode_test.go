package orchestrator

import "testing"

func TestFirstJSONObject(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                                   `{"a":1}`,
		"Sure! Here it is: {\"a\":{\"b\":2}} ok":    `{"a":{"b":2}}`,
		"set {x} then {\"ok\":true} and {\"no\":1}": `{"ok":true}`,
	}
	for in, want := range cases {
		got, ok := firstJSONObject(in)
		if !ok || string(got) != want {
			t.Errorf("firstJSONObject(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := firstJSONObject("no braces at all"); ok {
		t.Errorf("expected no object")
	}
	if _, ok := firstJSONObject("{broken"); ok {
		t.Errorf("expected no object for unterminated input")
	}
}

func TestDecodeJSONStripsFences(t *testing.T) {
	out, err := decodeJSON[map[string]string]("```json\n{\"FINN\":\"value it\"}\n```")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if (*out)["FINN"] != "value it" {
		t.Fatalf("unexpected %v", *out)
	}
	if _, err := decodeJSON[map[string]string]("nothing here"); err == nil {
		t.Fatalf("expected error")
	}
}
