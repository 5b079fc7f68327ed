// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the promptledger theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// HelpStyle renders hints and secondary information.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HeaderRowStyle styles the table header of the ledger listing.
var HeaderRowStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// SuccessTextStyle renders success status values.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// ErrorTextStyle renders failure status values and error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// MutedTextStyle renders de-emphasized cells such as timestamps.
var MutedTextStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// SpinnerStyle colors the loading spinner.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(Primary)

// StatsStyle frames the footer statistics block.
var StatsStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1).
	MarginTop(1)
