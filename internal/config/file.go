package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/ranjodhsingh/spotlight/internal/logger"
)

// isEmptyOrComment reports whether a config-file line carries no key/value
// pair: blank, or starting with '#' after leading whitespace.
func isEmptyOrComment(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func parseKeyValue(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	return key, value, true
}

// ParseFile reads a plain-text "key = value" config file. '#' begins a
// comment, blank lines are ignored. A parse error on an individual line is
// logged and the line is skipped; a missing file is non-fatal and yields an
// empty map so compiled-in defaults remain in effect.
func ParseFile(path string) map[string]string {
	values := map[string]string{}

	f, err := os.Open(path)
	if err != nil {
		logger.WithComponent("config").Warn().Err(err).Str("path", path).
			Msg("config file not found, using defaults")
		return values
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineNo := 0; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if isEmptyOrComment(line) {
			continue
		}

		key, value, ok := parseKeyValue(line)
		if !ok {
			logger.WithComponent("config").Warn().
				Int("line", lineNo).Str("path", path).
				Msg("skipping unparsable config line")
			continue
		}
		values[key] = value
	}

	return values
}
