// Package watch is a live terminal view of one appliance.
//
// The bubbletea model loads the appliance, renders the snapshot with the ui
// package and schedules the next load once the previous one has finished.
// Pressing r refreshes immediately; q quits.
package watch
