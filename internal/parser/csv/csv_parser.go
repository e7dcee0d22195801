// Package csv implements the delimited-text reader for the CRM export files.
//
// Every cell is kept as text: no type inference happens here, so numeric-
// looking product codes or compact dates are never mangled on ingest. Typed
// normalization is the job of the transformers that run afterwards.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"salesdw/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding is the IANA name of the source character set, e.g. "latin1"
	// or "utf-8". Empty means UTF-8.
	Encoding string

	// TrimSpace trims leading/trailing whitespace from each field value.
	TrimSpace bool

	// ExpectedFields, when > 0, enforces a fixed field count per record.
	// When zero the header width is enforced. Rows with a different width are
	// rejected (soft-fail) and reported in Result.Rejects.
	ExpectedFields int

	// HeaderMap optionally renames source headers before records are keyed.
	// Header matching is exact and case-sensitive.
	HeaderMap map[string]string
}

// RowErr describes a rejected row. Line is the 1-based line in the source.
type RowErr struct {
	Line int
	Err  error
}

func (e RowErr) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// Result is the outcome of one parse pass.
type Result struct {
	Header  []string
	Records []records.Record
	Rejects []RowErr
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse decodes r using the configured encoding and returns every data row as
// a records.Record of strings keyed by header.
//
// A missing header (empty input) is not an error: the Result is simply empty,
// and the caller decides whether that is acceptable. Malformed rows and rows
// with the wrong width are rejected individually. Only an unknown encoding,
// undecodable bytes, an I/O error, or context cancellation abort the pass.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (Result, error) {
	dec, err := decodeReader(r, p.opt.Encoding)
	if err != nil {
		return Result{}, err
	}

	cr := csv.NewReader(dec)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width is enforced below so bad rows can be rejected
	cr.LazyQuotes = true

	var res Result

	h, err := cr.Read()
	if err == io.EOF {
		return res, nil
	}
	if err != nil {
		return res, readErr("read csv header", err)
	}
	res.Header = normalizeHeaders(h, p.opt.HeaderMap)

	width := p.opt.ExpectedFields
	if width <= 0 {
		width = len(res.Header)
	}

	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) && !errors.Is(err, errInvalidBytes) {
				res.Rejects = append(res.Rejects, RowErr{Line: pe.StartLine, Err: pe.Err})
				continue
			}
			return res, readErr("read csv row", err)
		}

		line, _ := cr.FieldPos(0)
		if len(row) != width {
			res.Rejects = append(res.Rejects, RowErr{
				Line: line,
				Err:  fmt.Errorf("incorrect number of fields (expected %d, got %d)", width, len(row)),
			})
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if i >= len(res.Header) {
				break
			}
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[res.Header[i]] = val
		}
		res.Records = append(res.Records, rec)
	}

	return res, nil
}

// readErr wraps err, mapping undecodable input onto ErrEncoding.
func readErr(what string, err error) error {
	if errors.Is(err, errInvalidBytes) {
		return fmt.Errorf("%s: %w", what, errors.Join(ErrEncoding, err))
	}
	return fmt.Errorf("%s: %w", what, err)
}

// normalizeHeaders trims header cells, strips a BOM from the first one and
// applies the optional rename map. Case is preserved.
func normalizeHeaders(h []string, rename map[string]string) []string {
	h = StripHeaderBOM(h)
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if m, ok := rename[c]; ok && m != "" {
			c = m
		}
		res[i] = c
	}
	return res
}
