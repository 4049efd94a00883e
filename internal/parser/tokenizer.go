package parser

import (
	"errors"
	"strings"
)

// ErrMalformedRow indicates the input ended while a quoted field was still
// open. There is no sensible recovery, so the whole import is rejected.
var ErrMalformedRow = errors.New("malformed csv row: unterminated quoted field")

// ErrEmptyFile indicates the payload contained no rows at all.
var ErrEmptyFile = errors.New("csv file is empty")

// Tokenize splits raw CSV bytes into rows of fields. Quoting follows
// RFC 4180: a doubled quote inside a quoted field emits a literal quote, a
// comma only terminates a field outside quotes, and a newline only
// terminates a row outside quotes, so quoted fields may span lines.
// Fields are trimmed; rows whose fields are all empty are dropped.
func Tokenize(raw []byte) ([][]string, error) {
	text := strings.TrimPrefix(string(raw), "\ufeff")

	var (
		rows     [][]string
		fields   []string
		current  strings.Builder
		inQuotes bool
		started  bool
	)

	endField := func() {
		fields = append(fields, strings.TrimSpace(current.String()))
		current.Reset()
	}
	endRow := func() {
		endField()
		for _, f := range fields {
			if f != "" {
				rows = append(rows, fields)
				break
			}
		}
		fields = nil
		started = false
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			started = true
		case ch == ',' && !inQuotes:
			endField()
			started = true
		case (ch == '\n' || ch == '\r') && !inQuotes:
			if ch == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			if started || current.Len() > 0 || len(fields) > 0 {
				endRow()
			}
		default:
			current.WriteRune(ch)
			started = true
		}
	}

	if inQuotes {
		return nil, ErrMalformedRow
	}
	if started || current.Len() > 0 || len(fields) > 0 {
		endRow()
	}

	return rows, nil
}
