package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/deviceapi"
)

// Format selects how a snapshot is printed
type Format string

const (
	FormatDetailed Format = "detailed"
	FormatCompact  Format = "compact"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value. Empty means detailed.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatDetailed:
		return FormatDetailed, nil
	case FormatCompact:
		return FormatCompact, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (use detailed, compact or json)", s)
}

// Parts selects the sections of a snapshot to print
type Parts uint8

const (
	PartInfo Parts = 1 << iota
	PartProgram
	PartConsumption

	PartAll = PartInfo | PartProgram | PartConsumption
)

// Renderer prints snapshots.
type Renderer struct {
	Format  Format
	Numbers Numbers
	Width   int
}

// NewRenderer creates a renderer sized to the terminal.
func NewRenderer(format Format, locale string) *Renderer {
	return &Renderer{
		Format:  format,
		Numbers: NewNumbers(locale),
		Width:   GetTerminalWidth(),
	}
}

// Render prints the selected parts of s.
func (r *Renderer) Render(s appliance.Snapshot, parts Parts) (string, error) {
	switch r.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return string(data), nil
	case FormatCompact:
		return r.compact(s, parts), nil
	default:
		return r.detailed(s, parts), nil
	}
}

// RenderError prints a failed operation with its troubleshooting hint.
func (r *Renderer) RenderError(title string, err error) string {
	if r.Format == FormatJSON {
		data, _ := json.Marshal(map[string]string{
			"error": deviceapi.ShortMessage(err),
		})
		return string(data)
	}
	var hints []string
	for _, line := range strings.Split(deviceapi.TroubleshootingHint(err), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
		if line != "" && line != "Troubleshooting:" {
			hints = append(hints, line)
		}
	}
	if r.Format == FormatCompact {
		return fmt.Sprintf("%s %s: %s", FailureMarker, title, deviceapi.ShortMessage(err))
	}
	return (&Failure{Title: title, Err: err, Hints: hints, Width: r.Width}).Render()
}

func title(s appliance.Snapshot) string {
	if s.Model != "" {
		return s.Model
	}
	if s.Type != appliance.TypeUnknown {
		return s.Type.DisplayName()
	}
	return "V-ZUG appliance"
}

func (r *Renderer) detailed(s appliance.Snapshot, parts Parts) string {
	header := &Header{
		Title:    title(s),
		Subtitle: s.Host,
		Width:    r.Width,
	}
	if parts&PartInfo != 0 {
		header.Fields = identityFields(s)
	}

	var sections []Section
	if parts&PartProgram != 0 {
		sections = append(sections, r.programSections(s)...)
	}
	if parts&PartConsumption != 0 && s.Consumption != nil {
		sections = append(sections, Section{Title: "Consumption", Fields: r.consumptionFields(*s.Consumption)})
	}
	if s.Error != nil {
		sections = append(sections, Section{Title: "Last error", Fields: []Field{
			{"Kind", s.Error.Kind},
			{"Code", s.Error.Code},
			{"Message", s.Error.Message},
		}})
	}

	out := header.Render()
	if body := renderSections(sections); body != "" {
		color := SuccessColor
		if s.Error != nil {
			color = ErrorColor
		} else if s.Active {
			color = WarningColor
		}
		out = lipgloss.JoinVertical(lipgloss.Left, out, BoxStyle(r.Width, color).Render(body))
	}
	return out
}

func identityFields(s appliance.Snapshot) []Field {
	fields := []Field{
		{"Type", s.Type.DisplayName()},
		{"Serial", s.Serial},
		{"Name", s.Name},
		{"Status", orDash(s.Status)},
		{"Program", orDash(s.Program)},
		{"Active", yesNo(s.Active)},
	}
	if s.UUID != "" {
		uuid := s.UUID
		if !s.UUIDValid {
			uuid += " (not a UUID)"
		}
		fields = append(fields, Field{"UUID", uuid})
	}
	return fields
}

func (r *Renderer) programSections(s appliance.Snapshot) []Section {
	p := s.ProgramDetails
	if p == nil {
		return nil
	}
	fields := []Field{{"State", statusMarker(p.Status) + " " + string(p.Status)}}
	if p.Name != "" {
		fields = append(fields, Field{"Program", p.Name})
	}
	if p.Status == appliance.ProgramTimed {
		fields = append(fields,
			Field{"Starts in", Duration(p.SecondsToStart)},
			Field{"Duration", Duration(p.Duration)},
		)
		if p.StartTime != nil {
			fields = append(fields, Field{"Starts at", p.StartTime.Local().Format("15:04")})
		}
	}
	if p.Status == appliance.ProgramActive || p.Status == appliance.ProgramTimed {
		fields = append(fields, Field{"Remaining", Duration(p.SecondsToEnd)})
		if p.EndTime != nil {
			fields = append(fields, Field{"Ends at", p.EndTime.Local().Format("15:04")})
		}
	}
	sections := []Section{{Title: "Program", Fields: fields}}

	if f := s.Features; f != nil {
		sections = append(sections, Section{Title: "Options", Fields: []Field{
			{"Energy saving", yesNo(f.EnergySaving)},
			{"optiStart", yesNo(f.OptiStart)},
			{"Partial load", yesNo(f.PartialLoad)},
			{"Rinse plus", yesNo(f.RinsePlus)},
			{"Dry plus", yesNo(f.DryPlus)},
		}})
	}
	if o := s.OptiDos; o != nil {
		fields := []Field{{"Active", yesNo(o.Active)}}
		if o.Config != "" {
			fields = append(fields, Field{"Config", o.Config})
		}
		fields = append(fields,
			Field{"Fill level A", orDash(o.FillLevelA)},
			Field{"Fill level B", orDash(o.FillLevelB)},
		)
		sections = append(sections, Section{Title: "optiDos", Fields: fields})
	}
	return sections
}

func (r *Renderer) consumptionFields(c appliance.Consumption) []Field {
	fields := []Field{
		{"Energy total", r.Numbers.Energy(c.EnergyTotalKWh)},
		{"Energy average", r.Numbers.Energy(c.EnergyAvgKWh)},
	}
	if c.HasWater {
		fields = append(fields,
			Field{"Water total", r.Numbers.Water(c.WaterTotalL)},
			Field{"Water average", r.Numbers.Water(c.WaterAvgL)},
		)
	}
	return fields
}

func (r *Renderer) compact(s appliance.Snapshot, parts Parts) string {
	if s.Error != nil && !s.Loaded {
		return fmt.Sprintf("%s %s: %s [%s]", FailureMarker, s.Host, s.Error.Message, s.Error.Code)
	}

	items := []string{fmt.Sprintf("%s (%s)", title(s), s.Type)}
	if parts&PartInfo != 0 {
		items = append(items, s.Serial, orDash(s.Status))
	}
	if p := s.ProgramDetails; parts&PartProgram != 0 && p != nil {
		item := statusMarker(p.Status) + " " + string(p.Status)
		if p.Name != "" {
			item += " " + p.Name
		}
		switch p.Status {
		case appliance.ProgramTimed:
			item += ", starts in " + Duration(p.SecondsToStart)
		case appliance.ProgramActive:
			item += ", " + Duration(p.SecondsToEnd) + " left"
		}
		items = append(items, item)
	}
	if c := s.Consumption; parts&PartConsumption != 0 && c != nil {
		item := r.Numbers.Energy(c.EnergyTotalKWh) + " total"
		if c.HasWater {
			item += ", " + r.Numbers.Water(c.WaterTotalL)
		}
		items = append(items, item)
	}
	return strings.Join(items, " · ")
}

func statusMarker(status appliance.ProgramStatus) string {
	switch status {
	case appliance.ProgramActive:
		return ActiveMarker
	case appliance.ProgramTimed:
		return TimedMarker
	default:
		return IdleMarker
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
