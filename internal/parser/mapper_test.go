package parser

import "testing"

func TestMapHeaders_EveryAliasResolves(t *testing.T) {
	for field, aliases := range aliasTable {
		for _, alias := range aliases {
			cols := MapHeaders([]string{alias})
			if cols[field] != 0 {
				t.Errorf("alias %q did not resolve to field %s (got index %d)", alias, field, cols[field])
			}
		}
	}
}

func TestMapHeaders_FirstAliasWins(t *testing.T) {
	// "email address" precedes the generic "email" in the alias list, so it
	// must win regardless of column order.
	cols := MapHeaders([]string{"Email", "Email Address"})
	if cols[FieldEmail] != 1 {
		t.Fatalf("expected email address column to win, got index %d", cols[FieldEmail])
	}
}

func TestMapHeaders_AbsentFieldsAreSentinel(t *testing.T) {
	cols := MapHeaders([]string{"First Name", "Last Name"})
	if cols[FieldEmail] != -1 {
		t.Fatalf("expected -1 for absent email column, got %d", cols[FieldEmail])
	}
	if cols.Has(FieldEmail) {
		t.Fatal("Has should report false for an absent field")
	}
	if cols.Has(FieldFirstName) != true {
		t.Fatal("Has should report true for a mapped field")
	}
}

func TestColumnMap_Value(t *testing.T) {
	cols := MapHeaders([]string{"First Name", "Last Name", "Email Address"})
	row := []string{"Jane", "Doe", "jane@example.com"}

	if got := cols.Value(row, FieldEmail); got != "jane@example.com" {
		t.Fatalf("expected email cell, got %q", got)
	}
	if got := cols.Value(row, FieldPhone); got != "" {
		t.Fatalf("expected empty value for absent field, got %q", got)
	}

	short := []string{"Jane"}
	if got := cols.Value(short, FieldEmail); got != "" {
		t.Fatalf("expected empty value for short row, got %q", got)
	}
}
