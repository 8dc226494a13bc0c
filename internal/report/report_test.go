package report

import (
	"bytes"
	"strings"
	"testing"

	"capture-econ/internal/analysis"
	"capture-econ/internal/engine"
	"capture-econ/internal/model"
)

func TestFormatters(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{Money(1234567.8), "$1,234,568"},
		{Money(-1234567.8), "-$1,234,568"},
		{Money(999), "$999"},
		{Money(-0.4), "$0"},
		{PerTonne(108), "$108.00"},
		{PerTonne(1234.5), "$1,234.50"},
		{PerTonne(-3.256), "-$3.26"},
		{Percent(0.0825), "8.3%"},
		{Percent(-0.5), "-50.0%"},
		{Tonnes(1149.75), "1,150 t"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("got %q want %q", tc.got, tc.want)
		}
	}
}

func sample(t *testing.T) Report {
	t.Helper()
	in := model.DefaultInputs()
	in.HorizonYears = 3
	res, err := engine.Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	return Report{
		Title:  "Test fleet",
		Inputs: in,
		Result: res,
		Sensitivity: []analysis.SensitivityEntry{
			{Key: "incentive_rate", Label: "Incentive rate", Unit: "$/t", BaseValue: 180, LowNPV: -10, HighNPV: 10, Delta: 20},
			{Key: "capture_rate", Label: "Capture rate", Unit: "t/day", BaseValue: 3.5, LowNPV: -5, HighNPV: -5, Fallbacks: 2},
		},
	}
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown(&buf, sample(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Test fleet",
		"| Unit 1 capex | $319,950 |",
		"| Incentive | $108.00 |",
		"## Sensitivity",
		"Capture rate †",
		"| 2026 | 1 | 1,150 t |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownWithoutResult(t *testing.T) {
	if err := Markdown(&bytes.Buffer{}, Report{}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, sample(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!doctype html>") || !strings.Contains(out, "<title>Test fleet</title>") {
		t.Fatalf("unexpected page header: %.200s", out)
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<h2>Summary</h2>") {
		t.Fatal("GFM tables should render as HTML tables")
	}
}
