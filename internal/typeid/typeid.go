// Package typeid issues the prefixed, sortable identifiers used for scenes,
// gallery rooms and viewers.
package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixScene  = "scene"
	PrefixRoom   = "room"
	PrefixViewer = "viewer"
	PrefixExport = "exp"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewSceneID() string  { return New(PrefixScene) }
func NewRoomID() string   { return New(PrefixRoom) }
func NewViewerID() string { return New(PrefixViewer) }
func NewExportID() string { return New(PrefixExport) }

// Validate checks that id parses and carries expectedPrefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
