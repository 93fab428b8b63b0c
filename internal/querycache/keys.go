package querycache

import (
	"sort"
	"strings"
)

// Key builds a canonical cache key from a resource kind, an operation and its
// parameters, e.g. Key("items", "list", map[string]string{"status":
// "pending", "page": "1"}) == "items:list:page=1&status=pending". Parameters
// are sorted so equivalent queries share one entry; empty values are dropped.
func Key(kind, op string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(op)

	names := make([]string, 0, len(params))
	for name, value := range params {
		if value != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return b.String()
	}
	sort.Strings(names)

	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return b.String()
}

// ListKey is Key for the conventional "list" operation.
func ListKey(kind string, params map[string]string) string {
	return Key(kind, "list", params)
}

// DetailKey addresses a single resource by id.
func DetailKey(kind, id string) string {
	return kind + ":detail:" + id
}

// KindPattern matches every key of a resource kind, for invalidation.
func KindPattern(kind string) string {
	return kind + ":*"
}

// ListPattern matches every list entry of a resource kind regardless of
// filters or pagination.
func ListPattern(kind string) string {
	return kind + ":list*"
}
