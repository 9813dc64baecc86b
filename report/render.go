package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NoDataMessage is printed by the text renderers when no suite has data.
const NoDataMessage = "No test results entered."

// Text renders the report as plain text.
func Text(r Report) string {
	if !r.HasData() {
		return NoDataMessage + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", r.Title)
	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "%s\n", sec.Name)
		for _, line := range sec.Lines() {
			fmt.Fprintf(&b, "  • %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders the report as a Markdown document.
func Markdown(r Report) string {
	if !r.HasData() {
		return NoDataMessage + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", r.Title)
	for _, sec := range r.Sections {
		res := sec.Result
		fmt.Fprintf(&b, "**%s**\n\n", sec.Name)
		fmt.Fprintf(&b, "- Total test cases: **%d**\n", res.Total)
		fmt.Fprintf(&b, "- Passed: **%d** (**%.1f%%**)\n", res.Passed, res.PassRate)
		fmt.Fprintf(&b, "- Failed: **%d** (**%.1f%%**)\n\n", res.Failed, res.FailRate)
	}
	return b.String()
}

// JSON renders the report as indented JSON.
func JSON(r Report) ([]byte, error) {
	if r.Sections == nil {
		r.Sections = []Section{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report.JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Render dispatches on format: "text", "md" or "json".
func Render(r Report, format string) ([]byte, error) {
	switch format {
	case "text", "":
		return []byte(Text(r)), nil
	case "md", "markdown":
		return []byte(Markdown(r)), nil
	case "json":
		return JSON(r)
	}
	return nil, fmt.Errorf("report.Render: unknown format %q (want text, md or json)", format)
}
