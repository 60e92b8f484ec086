// Package metrics exports executor run statistics and process memory as
// Prometheus collectors, and writes them to a text file on demand.
package metrics
