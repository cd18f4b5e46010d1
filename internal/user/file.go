package user

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyFile   = errors.New("user file defines no users")
	ErrDuplicateID = errors.New("duplicate user id")
	ErrMissingName = errors.New("user name is required")
)

type file struct {
	Users []Profile `yaml:"users"`
}

// Decode reads a YAML user table of the form:
//
//	users:
//	  - id: 1
//	    name: Balou
//	    locale: fr
//	    timezone: Europe/Paris
//
// Locale and timezone values are stored as given; the resolver decides
// whether they are usable.
func Decode(r io.Reader) (*Table, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, ErrEmptyFile
	}

	seen := make(map[int]struct{}, len(f.Users))
	for i, p := range f.Users {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("user #%d (id %d): %w", i+1, p.ID, ErrMissingName)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return NewTable(f.Users...), nil
}

// LoadFile reads a YAML user table from path.
func LoadFile(path string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open users file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	t, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
