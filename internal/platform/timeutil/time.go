package timeutil

import (
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision, used for log timestamps.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// RFC3339MillisZoned is RFC 3339 with fixed millisecond precision and the
// numeric offset of the value's own location.
const RFC3339MillisZoned = "2006-01-02T15:04:05.000Z07:00"

// Time wraps time.Time so that JSON and CBOR output keep the wall clock of
// the value's location, e.g. "2024-07-14T14:00:00.000+02:00".
type Time struct {
	time.Time
}

// NewTime creates a Time from a standard time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

func (t Time) String() string {
	return t.Format(RFC3339MillisZoned)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts RFC 3339 variants. JSON null preserves the existing value.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return t.parse(s)
}

// MarshalCBOR encodes the same text form as MarshalJSON.
func (t Time) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(t.String())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (t *Time) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.parse(s)
}

func (t *Time) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// LoadZone looks name up in the IANA timezone database. It reports false for
// blank or unknown names instead of returning an error. "Local" is rejected
// because it depends on the host rather than naming a zone. Names in the
// wrong case ("utc", "europe/paris") resolve to the canonical zone; the
// returned location's String() is the canonical name.
func LoadZone(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "Local") {
		return nil, false
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc, true
	}
	for _, candidate := range caseCandidates(name) {
		if candidate == name {
			continue
		}
		if loc, err := time.LoadLocation(candidate); err == nil {
			return loc, true
		}
	}
	return nil, false
}

// CanonicalZone returns the database spelling of name.
func CanonicalZone(name string) (string, bool) {
	loc, ok := LoadZone(name)
	if !ok {
		return "", false
	}
	return loc.String(), true
}

// ValidZone reports whether name is a recognized IANA timezone identifier.
func ValidZone(name string) bool {
	_, ok := LoadZone(name)
	return ok
}

// maxCaseCandidates bounds the per-segment spelling combinations tried.
const maxCaseCandidates = 64

// caseCandidates spells every "/"-separated segment of name either in upper
// case (UTC, US, GMT+5) or in title case with "_" and "-" as word breaks
// (America/New_York), and returns the combinations.
func caseCandidates(name string) []string {
	out := []string{""}
	for i, seg := range strings.Split(name, "/") {
		spellings := []string{titleWords(seg)}
		if up := strings.ToUpper(seg); up != spellings[0] {
			spellings = append(spellings, up)
		}
		next := make([]string, 0, len(out)*len(spellings))
		for _, prefix := range out {
			for _, sp := range spellings {
				if i > 0 {
					sp = prefix + "/" + sp
				}
				next = append(next, sp)
			}
		}
		if len(next) > maxCaseCandidates {
			return nil
		}
		out = next
	}
	return out
}

func titleWords(s string) string {
	b := []byte(strings.ToLower(s))
	start := true
	for i, c := range b {
		if start && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		start = c == '_' || c == '-'
	}
	return string(b)
}
