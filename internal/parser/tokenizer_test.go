package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize_QuotedFields(t *testing.T) {
	rows, err := Tokenize([]byte("a,\"b,c\",\"d\"\"e\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	expected := []string{"a", "b,c", `d"e`}
	if !reflect.DeepEqual(rows[0], expected) {
		t.Fatalf("expected %v, got %v", expected, rows[0])
	}
}

func TestTokenize_NewlineInsideQuotes(t *testing.T) {
	rows, err := Tokenize([]byte("name,address\nJane,\"12 Main St\nSpringfield\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "12 Main St\nSpringfield" {
		t.Fatalf("expected embedded newline preserved, got %q", rows[1][1])
	}
}

func TestTokenize_CRLFRows(t *testing.T) {
	rows, err := Tokenize([]byte("a,b\r\nc,d\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[1], []string{"c", "d"}) {
		t.Fatalf("unexpected second row: %v", rows[1])
	}
}

func TestTokenize_SkipsBlankLines(t *testing.T) {
	rows, err := Tokenize([]byte("a,b\n\n\nc,d\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank lines dropped, got %d rows", len(rows))
	}
}

func TestTokenize_TrimsFields(t *testing.T) {
	rows, err := Tokenize([]byte(" a , b \n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rows[0], []string{"a", "b"}) {
		t.Fatalf("expected trimmed fields, got %v", rows[0])
	}
}

func TestTokenize_MissingLastNewline(t *testing.T) {
	rows, err := Tokenize([]byte("a,b\nc,d"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected trailing row without newline, got %d rows", len(rows))
	}
}

func TestTokenize_UnterminatedQuote(t *testing.T) {
	_, err := Tokenize([]byte("a,\"unclosed\n"))
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
}

func TestTokenize_StripsBOM(t *testing.T) {
	rows, err := Tokenize([]byte("\ufeffFirst Name,Last Name\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0][0] != "First Name" {
		t.Fatalf("expected BOM stripped, got %q", rows[0][0])
	}
}
