// Package ui renders appliance snapshots for the terminal.
//
// Three formats are supported: a detailed lipgloss layout with a header box
// and titled sections, a one-line compact form for scripts and logs, and
// indented JSON. Energy and water values are formatted for the configured
// locale with golang.org/x/text, so "de-CH" prints 2’119 ℓ where "en"
// prints 2,119 ℓ.
//
//	r := ui.NewRenderer(ui.FormatDetailed, "de-CH")
//	out, err := r.Render(appliance.TakeSnapshot(device, time.Now()), ui.PartAll)
package ui
