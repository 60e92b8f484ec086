// Package orchestration runs the two scheduling strategies on the same input,
// times them, and turns the outcome into a report and an exit code.
package orchestration
