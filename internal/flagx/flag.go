// Package flagx lets several components share os.Args without stepping on
// each other's flags: each one keeps only the flags it knows before parsing.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps the arguments in args whose flag name is listed in known,
// together with their values. Both "-x value" and "-x=value" forms are
// recognised; a following argument starting with "-" is never taken as a value.
// The result is never nil.
func FilterArgs(args []string, known []string) []string {
	allowed := make(map[string]struct{}, len(known))
	for _, f := range known {
		allowed[f] = struct{}{}
	}

	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				out = append(out, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// ConfigFileFlag returns the JSON config path given with -c or -config in
// os.Args, or "" when none was given.
func ConfigFileFlag() string {
	return configFileFrom(os.Args[1:])
}

func configFileFrom(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
