package remote

import (
	"fmt"
	"strings"
)

// ParseID extracts the bare resource id from a colon-separated URI such as
// "spotify:track:4uLU6hMC". It fails fast on anything that does not look
// like kind-qualified id, so a typo never turns into a network request.
func ParseID(uri string) (kind, id string, err error) {
	parts := strings.Split(uri, ":")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedURI, uri)
	}
	kind = parts[len(parts)-2]
	id = parts[len(parts)-1]
	if kind == "" || id == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedURI, uri)
	}
	return kind, id, nil
}
