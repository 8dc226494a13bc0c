package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"capture-econ/internal/analysis"
	"capture-econ/internal/engine"
	"capture-econ/internal/model"
)

// Report is everything rendered into one document. Sensitivity is optional.
type Report struct {
	Title       string
	Inputs      model.Inputs
	Result      *engine.Result
	Sensitivity []analysis.SensitivityEntry
}

// Markdown writes the report as GitHub-flavored markdown.
func Markdown(w io.Writer, r Report) error {
	if r.Result == nil {
		return fmt.Errorf("report has no result")
	}
	res := r.Result
	in := r.Inputs

	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Capture fleet economics"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d units, %d-year horizon from %d, %s discount rate.\n\n",
		in.FleetSize, in.HorizonYears, in.StartYear, Percent(in.DiscountRate))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	row(&b, "NPV", Money(res.NPV))
	row(&b, "IRR", optPercent(res.IRR))
	row(&b, "Payback year", optYear(res.PaybackYear))
	row(&b, "Discounted payback year", optYear(res.DiscountedPaybackYear))
	row(&b, "Levelized cost of capture", PerTonne(res.LCCC)+"/t")
	row(&b, "Breakeven incentive", PerTonne(res.BreakevenIncentive)+"/t")
	row(&b, "Unit 1 capex", Money(res.UnitCapex1))
	row(&b, "Total fleet capex", Money(res.TotalCapex))
	row(&b, "Annual output per unit", Tonnes(res.AnnualOutputPerUnit))
	row(&b, "Year 1 fleet output", Tonnes(res.Year1FleetOutput))
	b.WriteString("\n")

	b.WriteString("## Year 1 revenue per tonne\n\n")
	b.WriteString("| Stream | $/t |\n|---|---|\n")
	pt := res.Year1PerTonne
	row(&b, "Incentive", PerTonne(pt.Incentive))
	row(&b, "Market", PerTonne(pt.Market))
	row(&b, "Offtake", PerTonne(pt.Offtake))
	row(&b, "Compliance", PerTonne(pt.Compliance))
	row(&b, "**Total**", "**"+PerTonne(pt.Total)+"**")
	b.WriteString("\n")

	if len(res.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", escape(w))
		}
		b.WriteString("\n")
	}

	if len(r.Sensitivity) > 0 {
		b.WriteString("## Sensitivity (NPV at 0.8x / 1.2x)\n\n")
		b.WriteString("| Parameter | Base | Low NPV | High NPV | Swing |\n|---|---|---|---|---|\n")
		for _, e := range r.Sensitivity {
			label := escape(e.Label)
			if e.Fallbacks > 0 {
				label += " †"
			}
			fmt.Fprintf(&b, "| %s | %s %s | %s | %s | %s |\n",
				label, strconv.FormatFloat(e.BaseValue, 'g', 6, 64), escape(e.Unit),
				Money(e.LowNPV), Money(e.HighNPV), Money(e.Delta))
		}
		b.WriteString("\n† one or more perturbed runs failed and were scored at the base NPV.\n\n")
	}

	b.WriteString("## Cash flow\n\n")
	b.WriteString("| Year | Units | Output | Revenue | OPEX | Capex | Cash flow | Cumulative DCF |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, y := range res.Years {
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s | %s | %s |\n",
			y.CalendarYear, y.Units, Tonnes(y.FleetOutput),
			Money(y.TotalRevenue), Money(y.OPEX), Money(y.Capex),
			Money(y.CashFlow), Money(y.CumulativeDCF))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// HTML renders the markdown report into a standalone HTML page.
func HTML(w io.Writer, r Report) error {
	var src bytes.Buffer
	if err := Markdown(&src, r); err != nil {
		return err
	}

	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}

	title := r.Title
	if title == "" {
		title = "Capture fleet economics"
	}
	_, err := io.WriteString(w, "<!doctype html><html><head><meta charset='utf-8'><title>"+html.EscapeString(title)+"</title>"+
		"<style>"+pageCSS+"</style></head><body><main>"+body.String()+"</main></body></html>")
	return err
}

const pageCSS = "body{font-family:system-ui,sans-serif;color:#1c1917;background:#fff;margin:0;padding:1rem;} " +
	"main{max-width:1000px;margin:0 auto;} " +
	"table{border-collapse:collapse;width:100%;font-size:0.85rem;margin-bottom:1rem;} " +
	"th,td{border:1px solid #a8a29e;padding:0.3rem 0.45rem;text-align:right;} " +
	"th:first-child,td:first-child{text-align:left;} thead th{background:#f1f5f9;}"

func row(b *strings.Builder, k, v string) {
	fmt.Fprintf(b, "| %s | %s |\n", k, v)
}

func optPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return Percent(*v)
}

func optYear(v *int) string {
	if v == nil {
		return "never"
	}
	return strconv.Itoa(*v)
}

// escape keeps free text from breaking table cells.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
