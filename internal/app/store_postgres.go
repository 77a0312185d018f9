package app

import (
	"net/url"
	"regexp"
	"strings"
)

const maxTracedKVQueryLength = 512

var (
	kvQueryWhitespace = regexp.MustCompile(`\s+`)
	// kvQueryLiteral matches single-quoted SQL literals, including doubled quotes inside.
	kvQueryLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)
)

// postgresTarget is the connection string the KV store opens and the database name reported on spans.
type postgresTarget struct {
	DSN  string
	Name string
}

// resolvePostgresTarget applies the pooler flag to raw and extracts the database name from URL or keyword DSNs.
func resolvePostgresTarget(raw string, disablePreparedBinary bool) postgresTarget {
	raw = strings.TrimSpace(raw)
	target := postgresTarget{DSN: raw}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		target.Name = dsnKeyword(raw, "dbname")
		return target
	}

	target.Name = strings.TrimPrefix(parsed.Path, "/")
	if disablePreparedBinary {
		query := parsed.Query()
		if query.Get("disable_prepared_binary_result") == "" {
			query.Set("disable_prepared_binary_result", "yes")
			parsed.RawQuery = query.Encode()
			target.DSN = parsed.String()
		}
	}
	return target
}

func dsnKeyword(dsn, keyword string) string {
	for _, token := range strings.Fields(dsn) {
		value, ok := strings.CutPrefix(token, keyword+"=")
		if !ok {
			continue
		}
		if value = strings.Trim(value, `"'`); value != "" {
			return value
		}
	}
	return ""
}

// traceKVQuery flattens a statement for span attributes. Inlined literals from the
// pooler fallback path carry pick keys, so they are masked.
func traceKVQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	out := kvQueryLiteral.ReplaceAllString(query, "'?'")
	out = kvQueryWhitespace.ReplaceAllString(out, " ")
	if len(out) > maxTracedKVQueryLength {
		out = out[:maxTracedKVQueryLength] + "..."
	}
	return out
}
