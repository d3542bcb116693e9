package birddog

import (
	"net/url"
	"strconv"
	"strings"
)

// indexedQuery encodes an ordered list of values as repeated positional
// parameters: key[0]=a&key[1]=b&... The remote API requires the bracketed
// index suffix literally (not percent-encoded) and the input order preserved;
// values are query-escaped.
func indexedQuery(key string, values []string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(i))
		b.WriteString("]=")
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}
