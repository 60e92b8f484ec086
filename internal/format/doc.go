// Package format renders durations, byte sizes and result values for
// display.
package format
