// Package viz renders simulation output for the terminal: lipgloss styles
// for headings and metric tables, sparklines, and asciigraph line plots of
// population activity and spectra.
package viz
