// Package flagx picks out the subset of command-line arguments a component
// owns, so several flag sets can share os.Args without tripping over each
// other's unknown flags.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags named in valued (and their values).
// It is shorthand for FilterArgsWithBools(args, valued, nil).
func FilterArgs(args []string, valued []string) []string {
	return FilterArgsWithBools(args, valued, nil)
}

// FilterArgsWithBools keeps the flags named in valued and boolean.
//
// Valued flags are accepted as "-f value" or "-f=value". Boolean flags never
// consume the following argument; "-f=false" is kept as written. Unknown
// flags and positional arguments are dropped. The result is never nil.
func FilterArgsWithBools(args []string, valued []string, boolean []string) []string {
	takesValue := make(map[string]bool, len(valued)+len(boolean))
	for _, f := range valued {
		takesValue[f] = true
	}
	for _, f := range boolean {
		takesValue[f] = false
	}

	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := takesValue[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		hasValue, ok := takesValue[arg]
		if !ok {
			continue
		}
		out = append(out, arg)
		if hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// ConfigPath returns the JSON config path given with -c or -config, or ""
// when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-path", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
