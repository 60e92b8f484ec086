// Package ui holds the color themes of the command-line output. It exposes
// ANSI escape accessors for inline coloring and lipgloss styles for headings
// and status lines, both following the active theme.
package ui
