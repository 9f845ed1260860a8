package ui

import (
	"fmt"
	"strings"
)

// Field is one key/value line. Fields keep their order.
type Field struct {
	Key   string
	Value string
}

// Section is a titled group of fields.
type Section struct {
	Title  string
	Fields []Field
}

func renderFields(fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, "  "+KeyStyle.Render(f.Key+":")+" "+ValueStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

func renderSections(sections []Section) string {
	var blocks []string
	for _, s := range sections {
		if len(s.Fields) == 0 {
			continue
		}
		blocks = append(blocks, SectionTitleStyle.Render(s.Title)+"\n"+renderFields(s.Fields))
	}
	return strings.Join(blocks, "\n\n")
}

// Failure is the error box shown when a load fails.
type Failure struct {
	Title string
	Err   error
	Hints []string
	Width int
}

// Render returns the styled failure box
func (f *Failure) Render() string {
	width := f.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{ErrorTitleStyle.Render(fmt.Sprintf("%s  FAILED  ─  %s", FailureMarker, f.Title))}
	if f.Err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+f.Err.Error()))
	}
	if len(f.Hints) > 0 {
		lines = append(lines, "")
		for _, hint := range f.Hints {
			lines = append(lines, HintStyle.Render("• "+hint))
		}
	}
	return BoxStyle(width, ErrorColor).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (f *Failure) String() string {
	return f.Render()
}
