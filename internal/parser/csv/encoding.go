package csv

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEncoding reports an unknown character set name or bytes that cannot be
// decoded in the declared one. It aborts the whole run.
var ErrEncoding = errors.New("unreadable source encoding")

// errInvalidBytes is what the UTF-8 validator yields for malformed input.
var errInvalidBytes = encoding.ErrInvalidUTF8

// LookupEncoding resolves an IANA character set name. "", "utf8" and "utf-8"
// resolve to UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf8", "utf-8":
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, errors.Join(ErrEncoding, err))
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported: %w", name, ErrEncoding)
	}
	return enc, nil
}

// decodeReader wraps r so it yields UTF-8. UTF-8 input is validated rather
// than silently repaired.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return transform.NewReader(r, encoding.UTF8Validator), nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
