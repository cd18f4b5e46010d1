// Package user holds the read-only table of simulated users a request can log in as.
package user

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Profile is one entry of the user table. Empty Locale or Timezone means
// the user has no preference.
type Profile struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Locale   string `yaml:"locale,omitempty"`
	Timezone string `yaml:"timezone,omitempty"`
}

// Directory looks profiles up by id.
type Directory interface {
	Lookup(id int) (Profile, bool)
}

// Table is an immutable Directory. It is safe for concurrent use.
type Table struct {
	profiles map[int]Profile
}

// NewTable copies profiles into a new Table keyed by Profile.ID.
// A later profile with the same id replaces an earlier one.
func NewTable(profiles ...Profile) *Table {
	m := make(map[int]Profile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &Table{profiles: m}
}

// Lookup returns the profile for id.
func (t *Table) Lookup(id int) (Profile, bool) {
	if t == nil {
		return Profile{}, false
	}
	p, ok := t.profiles[id]
	return p, ok
}

// Len reports the number of profiles.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.profiles)
}

// IDs returns the known ids in ascending order.
func (t *Table) IDs() []int {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.profiles))
}

// All returns every profile ordered by id.
func (t *Table) All() []Profile {
	ids := t.IDs()
	out := make([]Profile, len(ids))
	for i, id := range ids {
		out[i] = t.profiles[id]
	}
	return out
}

// Find parses a login_as value and looks the id up. Missing, malformed or
// unknown ids all report false.
func Find(d Directory, loginAs string) (Profile, bool) {
	if d == nil {
		return Profile{}, false
	}
	loginAs = strings.TrimSpace(loginAs)
	if loginAs == "" {
		return Profile{}, false
	}
	id, err := strconv.Atoi(loginAs)
	if err != nil {
		return Profile{}, false
	}
	return d.Lookup(id)
}

// Seed returns the built-in demo users.
func Seed() *Table {
	return NewTable(
		Profile{ID: 1, Name: "Balou", Locale: "fr", Timezone: "Europe/Paris"},
		Profile{ID: 2, Name: "Beyonce", Locale: "en", Timezone: "US/Central"},
		Profile{ID: 3, Name: "Spock", Locale: "kg", Timezone: "Vulcan"},
		Profile{ID: 4, Name: "Teletubby", Timezone: "Europe/London"},
	)
}

var _ Directory = (*Table)(nil)
