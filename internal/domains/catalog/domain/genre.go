package domain

import (
	"errors"
	"strings"
)

var ErrEmptyGenreName = errors.New("genre name is required")

// Genre classifies books.
type Genre struct {
	ID   string
	Name string
}

// NewGenre builds a genre with a trimmed, non-empty name.
func NewGenre(id, name string) (*Genre, error) {
	genre := &Genre{ID: id}
	if err := genre.Rename(name); err != nil {
		return nil, err
	}
	return genre, nil
}

// Rename trims and validates the new name.
func (g *Genre) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyGenreName
	}
	g.Name = name
	return nil
}

// SameName compares names the way uniqueness is enforced: case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
