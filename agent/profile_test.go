package agent

import "testing"

func TestDetectOrderAndWordBoundaries(t *testing.T) {
	p := Profile{
		Name:    "NORA",
		Default: "NORA-Regulatory",
		SubRoles: []SubRole{
			{Name: "NORA-FedScout", Keywords: []string{"crada", "nih"}},
			{Name: "NORA-Regulatory", Keywords: []string{"fda", "ind"}},
			{Name: "NORA-IP", Keywords: []string{"patent", "ip"}},
		},
	}
	p.Compile()

	cases := map[string]string{
		"CRADA terms with the FDA":          "NORA-FedScout",
		"file an IND next quarter":          "NORA-Regulatory",
		"what indication should we choose?": "NORA-Regulatory",
		"our IP position":                   "NORA-IP",
		"relationship with payers":          "NORA-Regulatory",
		"patent cliff":                      "NORA-IP",
	}
	for query, want := range cases {
		if got := p.Detect(query); got != want {
			t.Errorf("Detect(%q) = %s, want %s", query, got, want)
		}
	}
}

func TestSubRoleLookup(t *testing.T) {
	p := Profile{Name: "VERA", Default: "VERA-Product", SubRoles: []SubRole{{Name: "VERA-Product"}, {Name: "VERA-Clinical"}}}
	for _, name := range []string{"VERA-Clinical", "vera-clinical", "Clinical", "clinical"} {
		if sr, ok := p.SubRole(name); !ok || sr.Name != "VERA-Clinical" {
			t.Errorf("SubRole(%q) not resolved", name)
		}
	}
	if _, ok := p.SubRole("FINN-ROI"); ok {
		t.Errorf("foreign sub-role resolved")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	p.Default = "VERA-Missing"
	if err := p.Validate(); err == nil {
		t.Errorf("expected invalid default")
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		2_500_000_000: "$2.5B",
		350_000_000:   "$350.0M",
		12_400:        "$12K",
		900:           "$900",
	}
	for in, want := range cases {
		if got := FormatCurrency(in); got != want {
			t.Errorf("FormatCurrency(%v) = %s, want %s", in, got, want)
		}
	}
	if got := Currency("n/a"); got != "n/a" {
		t.Errorf("Currency passthrough = %s", got)
	}
	if got := Months(18.0); got != "18 months" {
		t.Errorf("Months = %s", got)
	}
}

func TestAssetFieldsSkipEmpty(t *testing.T) {
	p := Profile{AssetFields: []AssetField{
		{Keys: []string{"developmentPhase", "phase"}, Label: "Phase"},
		{Keys: []string{"indication"}, Label: "Indication"},
	}}
	lines := p.assetLines(AssetContext{"phase": "Phase 2", "indication": " "})
	if len(lines) != 1 || lines[0] != "- Phase: Phase 2" {
		t.Fatalf("unexpected lines %v", lines)
	}
}
