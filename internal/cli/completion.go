package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/parbench/internal/config"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry there.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value; empty for booleans
	IsFile    bool     // completes file paths
	IsDir     bool     // completes directory paths
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "workload", Help: "Benchmark to run", Values: []string{"grid", "files"}, ValueName: "workload"},
	{Long: "rows", Help: "Number of grid rows", ValueName: "number"},
	{Long: "cols", Help: "Number of grid columns", ValueName: "number"},
	{Long: "min", Help: "Smallest grid value", ValueName: "number"},
	{Long: "max", Help: "Largest grid value", ValueName: "number"},
	{Long: "seed", Help: "Grid generation seed", ValueName: "seed"},
	{Long: "threshold", Help: "Widest column range computed as a leaf", Values: []string{"4", "10", "32", "128", "512"}, ValueName: "columns"},
	{Long: "dir", Help: "Root directory of the file count", ValueName: "dir", IsDir: true},
	{Long: "min-size", Help: "Count files larger than this many bytes", Values: []string{"0", "1024", "1048576"}, ValueName: "bytes"},
	{Long: "workers", Help: "Worker pool size", ValueName: "number"},
	{Long: "partitions", Help: "Up-front ranges for work-dealing", ValueName: "number"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "quiet", Short: "q", Help: "One line per strategy"},
	{Long: "verbose", Short: "v", Help: "Print every column sum"},
	{Long: "show-matrix", Help: "Print the generated grid"},
	{Long: "verify", Help: "Check results against a sequential run"},
	{Long: "calibrate", Help: "Benchmark thresholds and save the fastest"},
	{Long: "calibration-profile", Help: "Calibration profile file", ValueName: "file", IsFile: true},
	{Long: "output", Short: "o", Help: "Comparison report file", ValueName: "file", IsFile: true},
	{Long: "metrics-file", Help: "Prometheus metrics file", ValueName: "file", IsFile: true},
	{Long: "trace", Help: "OpenTelemetry span file", ValueName: "file", IsFile: true},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "log-json", Help: "Emit logs as JSON lines"},
	{Long: "completion", Help: "Generate completion script", Values: config.CompletionShells, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell to out.
//
// Parameters:
//   - out: The writer for the script.
//   - shell: One of config.CompletionShells.
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(config.CompletionShells, ", "))
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// flagNames returns the dashed spellings of f, long form first.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion() string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)

		var body string
		switch {
		case f.IsDir:
			body = `COMPREPLY=( $(compgen -d -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(flagNames(f), "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for parbench
# Add this to your ~/.bashrc or ~/.bash_completion

_parbench_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _parbench_completions parbench
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion() string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		var suffix string
		switch {
		case f.IsDir:
			suffix = fmt.Sprintf(":%s:_directories", f.ValueName)
		case f.IsFile:
			suffix = fmt.Sprintf(":%s:_files", f.ValueName)
		case len(f.Values) > 0:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
		case f.ValueName != "":
			suffix = fmt.Sprintf(":%s:", f.ValueName)
		}
		if f.Short != "" {
			args = append(args, fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, suffix))
		} else {
			args = append(args, fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, suffix))
		}
	}

	return fmt.Sprintf(`#compdef parbench

# Zsh completion script for parbench
# Add this to your ~/.zshrc or place in $fpath

_parbench() {
    _arguments -s \
%s
}

_parbench "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion() string {
	lines := []string{
		"# Fish completion script for parbench",
		"# Add this to ~/.config/fish/completions/parbench.fish",
		"",
		"complete -c parbench -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c parbench"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsDir:
			parts = append(parts, "-xa '(__fish_complete_directories)'")
		case f.IsFile:
			parts = append(parts, "-rF")
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
