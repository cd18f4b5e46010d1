package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// LinkHeader builds an RFC 8288 Link header for the next and previous pages
// of base. Existing query parameters are kept; cursor and limit are replaced.
func LinkHeader(base string, query url.Values, limit int, next, prev string) string {
	var links []string
	for _, l := range []struct{ rel, cursor string }{{"next", next}, {"prev", prev}} {
		if l.cursor == "" {
			continue
		}
		q := cloneValues(query)
		q.Set("cursor", l.cursor)
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		links = append(links, fmt.Sprintf("<%s?%s>; rel=%q", base, q.Encode(), l.rel))
	}
	return strings.Join(links, ", ")
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
