package cli

import (
	"fmt"
	"strings"

	"github.com/artistkatta/jobservice/internal/common"
)

// splitArgs splits line on whitespace. Single or double quotes group words
// and are removed; a backslash escapes the next character inside double
// quotes and outside quotes.
func splitArgs(line string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				out = append(out, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, fmt.Errorf("%w: unterminated quote or escape", common.ErrValidation)
	}
	if inWord {
		out = append(out, cur.String())
	}
	return out, nil
}

// parseKV turns key=value arguments into a map. Later keys win.
func parseKV(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", common.ErrValidation, arg)
		}
		out[k] = v
	}
	return out, nil
}
