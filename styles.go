package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants for consistent theming
var (
	colorBlue = lipgloss.Color("blue")

	// Gray scale (for subtle elements)
	colorGray243 = lipgloss.Color("243") // Medium gray
	colorGray244 = lipgloss.Color("244") // Subtle gray

	// Diff colors
	colorGreen142 = lipgloss.Color("142") // Soft green (new files)
	colorGreen86  = lipgloss.Color("86")  // Bright green (added lines)
	colorRed203   = lipgloss.Color("203") // Soft red (failures)
	colorRed196   = lipgloss.Color("196") // Bright red (removed lines)

	// Accent colors
	colorSoftBlue75 = lipgloss.Color("75")  // Soft blue (hunk headers)
	colorSoftYellow = lipgloss.Color("229") // Soft warm yellow (written patches)
)

// Status line styles, one per outcome kind
var (
	newFileStyle = lipgloss.NewStyle().
			Foreground(colorGreen142).
			Bold(true)

	unchangedStyle = lipgloss.NewStyle().
			Foreground(colorGray244)

	writtenStyle = lipgloss.NewStyle().
			Foreground(colorSoftYellow).
			Bold(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(colorRed203).
			Bold(true)

	summaryStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)
)

// Patch styles used by --print
var (
	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorGray243).
			Bold(true)

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(colorSoftBlue75)

	addedMarkerStyle = lipgloss.NewStyle().
				Foreground(colorGreen86).
				Bold(true)

	removedMarkerStyle = lipgloss.NewStyle().
				Foreground(colorRed196).
				Bold(true)

	contextMarkerStyle = lipgloss.NewStyle().
				Foreground(colorGray244)
)
