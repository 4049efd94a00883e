package parser

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalize_NameGate(t *testing.T) {
	cols := MapHeaders([]string{"First Name", "Last Name", "Email Address"})
	n := NewNormalizer("US")

	contact, ok := n.Normalize([]string{"Jane", "Doe", "jane@example.com"}, cols, FormatLinkedInConnections)
	if !ok {
		t.Fatal("expected row with a name to pass")
	}
	if contact.Name != "Jane Doe" {
		t.Fatalf("expected joined name, got %q", contact.Name)
	}
	if contact.Email != "jane@example.com" {
		t.Fatalf("expected email, got %q", contact.Email)
	}
	if contact.Source != string(FormatLinkedInConnections) {
		t.Fatalf("expected source tag, got %q", contact.Source)
	}

	if _, ok := n.Normalize([]string{"", "", "nobody@example.com"}, cols, FormatLinkedInConnections); ok {
		t.Fatal("expected nameless row to be skipped")
	}
}

func TestNormalize_FullNameFallback(t *testing.T) {
	cols := MapHeaders([]string{"Name", "Company"})
	n := NewNormalizer("US")

	contact, ok := n.Normalize([]string{"John Smith", "Acme"}, cols, FormatLinkedInContacts)
	if !ok {
		t.Fatal("expected row with full name to pass")
	}
	if contact.Name != "John Smith" {
		t.Fatalf("expected full name, got %q", contact.Name)
	}
	if contact.Company != "Acme" {
		t.Fatalf("expected company, got %q", contact.Company)
	}
}

func TestNormalize_SearchableText(t *testing.T) {
	cols := MapHeaders([]string{"First Name", "Last Name", "Email Address", "Company", "Position"})
	n := NewNormalizer("US")

	contact, ok := n.Normalize([]string{"Jane", "Doe", "Jane@Example.COM", "Acme Corp", "Engineer"}, cols, FormatLinkedInConnections)
	if !ok {
		t.Fatal("expected row to pass")
	}
	expected := "jane doe acme corp engineer jane@example.com"
	if contact.SearchableText != expected {
		t.Fatalf("expected %q, got %q", expected, contact.SearchableText)
	}
}

func TestSplitMultiValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"semicolons", "a@x.com; b@x.com", []string{"a@x.com", "b@x.com"}},
		{"commas", "a@x.com, b@x.com", []string{"a@x.com", "b@x.com"}},
		{"pipes", "a@x.com|b@x.com", []string{"a@x.com", "b@x.com"}},
		{"newlines", "a@x.com\nb@x.com", []string{"a@x.com", "b@x.com"}},
		{"single value", "a@x.com", []string{"a@x.com"}},
		{"first separator wins", "a;b,c", []string{"a", "b,c"}},
		{"discards degenerate values", "a; null; undefined; ; b", []string{"a", "b"}},
		{"degenerate values are case-insensitive", "a; NULL; Undefined; b", []string{"a", "b"}},
		{"empty cell", "   ", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitMultiValue(tc.input); !reflect.DeepEqual(got, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"02 Jan 2023", "2023-01-02"},
		{"2 Jan 2023", "2023-01-02"},
		{"2023-01-02", "2023-01-02"},
		{"01/02/2023", "2023-01-02"},
		{"Jan 2, 2023", "2023-01-02"},
	}

	for _, tc := range tests {
		got := ParseDate(tc.input)
		if got == nil {
			t.Errorf("expected %q to parse", tc.input)
			continue
		}
		if got.Format("2006-01-02") != tc.expected {
			t.Errorf("expected %s for %q, got %s", tc.expected, tc.input, got.Format("2006-01-02"))
		}
	}

	if got := ParseDate("not a date"); got != nil {
		t.Fatalf("expected nil for garbage input, got %v", got)
	}
	if got := ParseDate(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestParseDate_RFC3339(t *testing.T) {
	got := ParseDate("2023-01-02T15:04:05Z")
	if got == nil {
		t.Fatal("expected RFC3339 value to parse")
	}
	if !got.Equal(time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected parsed time: %v", got)
	}
}

func TestPhoneKey(t *testing.T) {
	if got := PhoneKey("+1 (555) 123-4567"); got != "15551234567" {
		t.Fatalf("expected digits-only key, got %q", got)
	}
	if got := PhoneKey("12345"); got != "" {
		t.Fatalf("expected empty key for short number, got %q", got)
	}
	if got := PhoneKey("ext. 42"); got != "" {
		t.Fatalf("expected empty key for non-number, got %q", got)
	}
}

func TestPhoneKeys_Dedup(t *testing.T) {
	keys := PhoneKeys([]string{"+1 555 123 4567", "(555) 123-4567", "555.123.4567"})
	// The E.164 form and the bare national form differ by country code, so
	// two distinct keys remain.
	if len(keys) != 2 {
		t.Fatalf("expected 2 distinct keys, got %v", keys)
	}
}

func TestNormalizeEmail_IDNADomain(t *testing.T) {
	got := normalizeEmail("User@München.example")
	if got != "user@xn--mnchen-3ya.example" {
		t.Fatalf("expected punycoded domain, got %q", got)
	}
}

func TestDisplayPhone_E164Upgrade(t *testing.T) {
	n := NewNormalizer("US")
	if got := n.displayPhone("(555) 123-4567"); got != "+15551234567" {
		t.Fatalf("expected E.164 form, got %q", got)
	}
	if got := n.displayPhone("not a phone"); got != "not a phone" {
		t.Fatalf("expected unparseable value kept verbatim, got %q", got)
	}
}

func TestCleanValue_StripsSurroundingQuotes(t *testing.T) {
	if got := cleanValue(` "Acme Corp" `); got != "Acme Corp" {
		t.Fatalf("expected quotes stripped, got %q", got)
	}
}
