package cli

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/sift/internal/ui"
)

func successf(format string, args ...interface{}) string {
	return ui.Successf(format, args...)
}

// cutAt splits s at its last '@', which separates credentials from the
// address in a mysql DSN.
func cutAt(s string) (before, after string, ok bool) {
	i := strings.LastIndex(s, "@")
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func cutColon(s string) (before, after string, ok bool) {
	return strings.Cut(s, ":")
}

// parseKeyValues parses key=value arguments. Later keys win.
func parseKeyValues(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", arg)
		}
		out[k] = v
	}
	return out, nil
}
