package cache

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator joins signature segments and the namespace
const KeySeparator = "::"

// Signature is the deterministic cache key for a read request:
// namespace::<xxhash of method, path, sorted query and canonical body>.
// Query keys and values are sorted. JSON bodies are compacted: whitespace does not matter but member order does,
// since a sort object is ordered
func Signature(namespace, method, path string, query url.Values, body []byte) string {
	parts := []string{strings.ToUpper(method), path, canonicalQuery(query), canonicalBody(body)}
	sum := xxhash.Sum64String(strings.Join(parts, KeySeparator))
	return namespace + KeySeparator + strconv.FormatUint(sum, 16)
}

// Prefix returns the key prefix shared by every signature in namespace
func Prefix(namespace string) string { return namespace + KeySeparator }

func canonicalQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		vs := append([]string(nil), q[k]...)
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// canonicalBody strips insignificant JSON whitespace and keeps member order; anything else is used verbatim
func canonicalBody(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var out bytes.Buffer
	if err := json.Compact(&out, body); err != nil {
		return string(body)
	}
	return out.String()
}
