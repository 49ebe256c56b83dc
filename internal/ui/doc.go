// Package ui styles terminal output with lipgloss.
//
// [Palette] holds the named styles; [Summary] renders the end-of-run report printed by the transfer command.
package ui
