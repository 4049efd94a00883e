package parser

// Field names one of the canonical contact attributes every input dialect is
// mapped onto.
type Field string

// Canonical fields.
const (
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"
	FieldFullName       Field = "fullName"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldCompany        Field = "company"
	FieldPosition       Field = "position"
	FieldLocation       Field = "location"
	FieldConnectedOn    Field = "connectedOn"
	FieldProfileURL     Field = "profileUrl"
	FieldBirthday       Field = "birthday"
	FieldNotes          Field = "notes"
	FieldWebsites       Field = "websites"
	FieldInstantMessage Field = "instantMessage"
	FieldCreatedAt      Field = "createdAt"
	FieldBookmarkedAt   Field = "bookmarkedAt"
)

var canonicalFields = []Field{
	FieldFirstName, FieldLastName, FieldFullName,
	FieldEmail, FieldPhone,
	FieldCompany, FieldPosition, FieldLocation,
	FieldConnectedOn, FieldProfileURL,
	FieldBirthday, FieldNotes, FieldWebsites, FieldInstantMessage,
	FieldCreatedAt, FieldBookmarkedAt,
}

// aliasTable lists the accepted header spellings per canonical field, in
// priority order: more specific aliases precede generic ones so the first
// match wins ("email address" before "email").
var aliasTable = map[Field][]string{
	FieldFirstName: {"first name", "firstname", "given name"},
	FieldLastName:  {"last name", "lastname", "surname", "family name"},
	FieldFullName:  {"name", "full name", "fullname", "contact name"},

	FieldEmail: {"email address", "email", "e-mail", "email addresses", "primary email", "emails"},
	FieldPhone: {"phone", "phone number", "phonenumber", "mobile", "telephone", "phonenumbers"},

	FieldCompany:  {"company", "current company", "organization", "employer", "workplace", "companies"},
	FieldPosition: {"position", "current position", "title", "job title", "current title", "role", "jobtitle"},
	FieldLocation: {"location", "current location", "address", "city", "region", "addresses"},

	FieldConnectedOn: {"connected on", "connection date", "date connected", "connected"},
	FieldProfileURL:  {"url", "profile url", "linkedin url", "profile link", "profiles"},

	FieldBirthday:       {"birthday", "birth date", "birthdate", "date of birth"},
	FieldNotes:          {"notes", "description", "bio"},
	FieldWebsites:       {"websites", "sites", "website"},
	FieldInstantMessage: {"instant message handles", "instantmessagehandles", "im"},

	FieldCreatedAt:    {"created at", "createdat", "date created"},
	FieldBookmarkedAt: {"bookmarked at", "bookmarkedat", "date bookmarked"},
}

// ColumnMap resolves canonical fields to column indexes for one file.
// Absent fields map to -1; that is never an error.
type ColumnMap map[Field]int

// MapHeaders resolves every canonical field against the case-normalized,
// trimmed header row. For each field the alias list is tried in order and
// the first alias present in the headers wins.
func MapHeaders(headers []string) ColumnMap {
	normalized := normalizeHeaders(headers)

	cols := make(ColumnMap, len(canonicalFields))
	for _, field := range canonicalFields {
		cols[field] = findHeaderIndex(normalized, aliasTable[field])
	}
	return cols
}

// Has reports whether the field is present in this file.
func (m ColumnMap) Has(field Field) bool {
	idx, ok := m[field]
	return ok && idx >= 0
}

// Value returns the cell for the field in the given row, or "" when the
// field is absent or the row is short.
func (m ColumnMap) Value(row []string, field Field) string {
	idx, ok := m[field]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func findHeaderIndex(normalizedHeaders, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range normalizedHeaders {
			if h == alias {
				return i
			}
		}
	}
	return -1
}
