// Package request builds CoAP request messages from a method, a path and an
// optional payload.
package request

import (
	"fmt"
	"strings"

	"github.com/backkem/teleclient/pkg/message"
)

// EncodePath appends one Uri-Path option per non-empty "/"-separated segment
// of path, in order. Leading slashes and empty segments are skipped.
//
// On failure the options appended so far stay on m.
func EncodePath(m *message.Message, path string) error {
	rest := strings.TrimLeft(path, "/")
	for rest != "" {
		seg, tail, _ := strings.Cut(rest, "/")
		rest = tail
		if seg == "" {
			continue
		}
		if err := m.AddStringOption(message.URIPath, seg); err != nil {
			return fmt.Errorf("%w: segment %q: %w", ErrPath, seg, err)
		}
	}
	return nil
}
