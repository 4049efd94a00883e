package parser

import (
	"fmt"

	"github.com/beetagged/contacts-api/internal/entity"
)

// Result carries the normalized batch for one uploaded file together with
// the row accounting the import report needs.
type Result struct {
	Contacts  []entity.Contact
	Format    Format
	Headers   []string
	Processed int
	Skipped   int
}

// Parse tokenizes the payload, detects its dialect, maps the header row and
// normalizes every data row. Rows without a derivable name are counted as
// skipped; structural failures abort the whole parse.
func Parse(raw []byte, region string) (Result, error) {
	rows, err := Tokenize(raw)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize csv: %w", err)
	}
	if len(rows) == 0 {
		return Result{}, ErrEmptyFile
	}

	headers := rows[0]
	result := Result{
		Format:  DetectFormat(headers),
		Headers: headers,
	}

	cols := MapHeaders(headers)
	normalizer := NewNormalizer(region)

	for _, row := range rows[1:] {
		result.Processed++
		contact, ok := normalizer.Normalize(row, cols, result.Format)
		if !ok {
			result.Skipped++
			continue
		}
		result.Contacts = append(result.Contacts, contact)
	}

	return result, nil
}
