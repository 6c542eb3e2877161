// Package cursor implements the opaque pagination token used by list
// endpoints. A token is the base64 of the JSON array of the last item's
// literal sort values; clients persist and replay it across requests, so
// the encoding is a public contract.
package cursor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCursor is returned when a token is not valid base64 or does not
// decode to a JSON array. Callers must treat it as a client error rather
// than falling back to the first page.
var ErrInvalidCursor = errors.New("invalid pagination cursor")

// Encode serializes the ordered sort-key tuple into an opaque token.
func Encode(sortValues []any) (string, error) {
	if len(sortValues) == 0 {
		return "", fmt.Errorf("encode cursor: empty sort tuple")
	}

	data, err := json.Marshal(sortValues)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode parses a token back into the sort-key tuple. Numbers are decoded
// as json.Number so they re-marshal exactly as the engine emitted them;
// pagination depends on the values being echoed byte for byte.
func Decode(token string) ([]any, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCursor, token)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var values []any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCursor, token)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty sort tuple", ErrInvalidCursor)
	}

	return values, nil
}
