package format

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatColumnSums renders sums as a bracketed list. When the list is longer
// than limit, only the first and last limit/2 values are shown around an
// ellipsis. A limit of zero or less disables truncation.
func FormatColumnSums(sums []int64, limit int) string {
	if limit <= 0 || len(sums) <= limit {
		return "[" + joinInts(sums) + "]"
	}
	edge := max(1, limit/2)
	return fmt.Sprintf("[%s ... %s] (%d columns)", joinInts(sums[:edge]), joinInts(sums[len(sums)-edge:]), len(sums))
}

func joinInts(vs []int64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, " ")
}

// FormatBytes renders n with a binary unit suffix (KiB, MiB, ...).
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
