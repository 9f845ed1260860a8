package ui

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Numbers formats values for one locale.
type Numbers struct {
	p *message.Printer
}

// NewNumbers creates a formatter for a BCP 47 locale. Unknown or empty
// locales fall back to English.
func NewNumbers(locale string) Numbers {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return Numbers{p: message.NewPrinter(tag)}
}

// Energy formats kilowatt hours with one decimal.
func (n Numbers) Energy(kwh float64) string {
	return n.p.Sprintf("%.1f kWh", kwh)
}

// Water formats liters without decimals.
func (n Numbers) Water(liters float64) string {
	return n.p.Sprintf("%.0f ℓ", liters)
}

// Int formats an integer with grouping.
func (n Numbers) Int(v int64) string {
	return n.p.Sprintf("%d", v)
}

// Duration formats seconds as "2h 06m", "45m" or "30s".
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
