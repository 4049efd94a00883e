package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beetagged/contacts-api/internal/dto"
	"github.com/beetagged/contacts-api/internal/entity"
)

// ContactsRepository is the bulk read/write contract the import pipeline
// consumes. Lookups are batched; writes report per-item failures instead of
// aborting sibling records.
type ContactsRepository interface {
	FindByEmails(ctx context.Context, ownerID *uuid.UUID, emails []string) ([]entity.Contact, error)
	FindByNormalizedPhones(ctx context.Context, ownerID *uuid.UUID, phones []string) ([]entity.Contact, error)
	BulkInsert(ctx context.Context, contacts []entity.Contact) (BulkWriteResult, error)
	BulkUpdate(ctx context.Context, updates []ContactUpdate) (BulkWriteResult, error)
	List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, error)
}

// ContactUpdate addresses one stored contact with its replacement state.
type ContactUpdate struct {
	ID      uuid.UUID
	Contact entity.Contact
}

// ItemError records a single failed record within a bulk write.
type ItemError struct {
	Index   int
	Message string
}

// BulkWriteResult summarises a continue-on-error bulk write.
type BulkWriteResult struct {
	Written int
	Errors  []ItemError
}

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

const contactColumns = `
        id,
        owner_id,
        name,
        email,
        emails,
        phone,
        phone_numbers,
        normalized_phones,
        company,
        companies,
        position,
        job_title,
        location,
        addresses,
        profile_url,
        connected_on,
        connected_on_parsed,
        birthday,
        birthday_parsed,
        notes,
        websites,
        im_handles,
        original_created_at,
        original_created_at_parsed,
        bookmarked_at,
        bookmarked_at_parsed,
        searchable_text,
        source,
        created_at,
        updated_at`

// FindByEmails returns contacts whose primary email or email list intersects
// the given set. One round trip per batch.
func (r *PGXContactsRepository) FindByEmails(ctx context.Context, ownerID *uuid.UUID, emails []string) ([]entity.Contact, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	query := `SELECT` + contactColumns + `
        FROM contacts
        WHERE (email = ANY($1) OR emails && $1)`
	args := []any{emails}
	if ownerID != nil {
		query += ` AND owner_id = $2`
		args = append(args, *ownerID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find contacts by emails: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// FindByNormalizedPhones returns contacts whose normalized phone set
// intersects the given digit-only keys. One round trip per batch.
func (r *PGXContactsRepository) FindByNormalizedPhones(ctx context.Context, ownerID *uuid.UUID, phones []string) ([]entity.Contact, error) {
	if len(phones) == 0 {
		return nil, nil
	}

	query := `SELECT` + contactColumns + `
        FROM contacts
        WHERE normalized_phones && $1`
	args := []any{phones}
	if ownerID != nil {
		query += ` AND owner_id = $2`
		args = append(args, *ownerID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find contacts by phones: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

const insertContactSQL = `
        INSERT INTO contacts (
            owner_id, name, email, emails, phone, phone_numbers, normalized_phones,
            company, companies, position, job_title, location, addresses, profile_url,
            connected_on, connected_on_parsed, birthday, birthday_parsed,
            notes, websites, im_handles,
            original_created_at, original_created_at_parsed,
            bookmarked_at, bookmarked_at_parsed,
            searchable_text, source, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11, $12, $13, $14,
            $15, $16, $17, $18,
            $19, $20, $21,
            $22, $23,
            $24, $25,
            $26, $27, NOW(), NOW()
        )`

// BulkInsert inserts the records one statement at a time without a wrapping
// transaction. A constraint violation on one record is recorded and the rest
// of the sub-batch continues; connection-level failures abort.
func (r *PGXContactsRepository) BulkInsert(ctx context.Context, contacts []entity.Contact) (BulkWriteResult, error) {
	var result BulkWriteResult
	for i, c := range contacts {
		_, err := r.pool.Exec(ctx, insertContactSQL, contactArgs(&c)...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				result.Errors = append(result.Errors, ItemError{Index: i, Message: pgErr.Message})
				continue
			}
			return result, fmt.Errorf("bulk insert contact %q: %w", c.Name, err)
		}
		result.Written++
	}
	return result, nil
}

const updateContactSQL = `
        UPDATE contacts SET
            name = $2, email = $3, emails = $4, phone = $5, phone_numbers = $6,
            normalized_phones = $7, company = $8, companies = $9, position = $10,
            job_title = $11, location = $12, addresses = $13, profile_url = $14,
            connected_on = $15, connected_on_parsed = $16, birthday = $17, birthday_parsed = $18,
            notes = $19, websites = $20, im_handles = $21,
            original_created_at = $22, original_created_at_parsed = $23,
            bookmarked_at = $24, bookmarked_at_parsed = $25,
            searchable_text = $26, source = $27, updated_at = NOW()
        WHERE id = $1`

// BulkUpdate applies merged records by id with the same continue-on-error
// semantics as BulkInsert. created_at is never touched.
func (r *PGXContactsRepository) BulkUpdate(ctx context.Context, updates []ContactUpdate) (BulkWriteResult, error) {
	var result BulkWriteResult
	for i, u := range updates {
		args := append([]any{u.ID}, contactUpdateArgs(&u.Contact)...)
		tag, err := r.pool.Exec(ctx, updateContactSQL, args...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				result.Errors = append(result.Errors, ItemError{Index: i, Message: pgErr.Message})
				continue
			}
			return result, fmt.Errorf("bulk update contact %s: %w", u.ID, err)
		}
		if tag.RowsAffected() == 0 {
			result.Errors = append(result.Errors, ItemError{Index: i, Message: "contact not found"})
			continue
		}
		result.Written++
	}
	return result, nil
}

// List retrieves stored contacts matching the filter, newest first when
// searching, by name otherwise.
func (r *PGXContactsRepository) List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT` + contactColumns + ` FROM contacts`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.OwnerID != nil {
		clauses = append(clauses, fmt.Sprintf("owner_id = $%d", idx))
		args = append(args, *filter.OwnerID)
		idx++
	}
	if filter.Q != "" {
		clauses = append(clauses, fmt.Sprintf("searchable_text ILIKE $%d", idx))
		args = append(args, "%"+strings.ToLower(filter.Q)+"%")
		idx++
	}
	if filter.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = $%d", idx))
		args = append(args, filter.Source)
		idx++
	}
	if filter.Company != "" {
		clauses = append(clauses, fmt.Sprintf("(company ILIKE $%d OR $%d ILIKE ANY(companies))", idx, idx+1))
		args = append(args, "%"+filter.Company+"%", filter.Company)
		idx += 2
	}

	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}

	if filter.Q != "" {
		query.WriteString(" ORDER BY updated_at DESC, name ASC")
	} else {
		query.WriteString(" ORDER BY name ASC")
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	query.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func contactArgs(c *entity.Contact) []any {
	return []any{
		c.OwnerID,
		c.Name,
		c.Email,
		textArray(c.Emails),
		c.Phone,
		textArray(c.PhoneNumbers),
		textArray(c.NormalizedPhones),
		c.Company,
		textArray(c.Companies),
		c.Position,
		c.JobTitle,
		c.Location,
		textArray(c.Addresses),
		c.ProfileURL,
		c.ConnectedOn,
		c.ConnectedOnParsed,
		c.Birthday,
		c.BirthdayParsed,
		c.Notes,
		textArray(c.Websites),
		textArray(c.InstantMessageHandles),
		c.OriginalCreatedAt,
		c.OriginalCreatedAtParsed,
		c.BookmarkedAt,
		c.BookmarkedAtParsed,
		c.SearchableText,
		c.Source,
	}
}

func contactUpdateArgs(c *entity.Contact) []any {
	// Same order as contactArgs minus owner_id, which never changes.
	return contactArgs(c)[1:]
}

func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func scanContacts(rows pgx.Rows) ([]entity.Contact, error) {
	var contacts []entity.Contact
	for rows.Next() {
		var c entity.Contact
		err := rows.Scan(
			&c.ID,
			&c.OwnerID,
			&c.Name,
			&c.Email,
			&c.Emails,
			&c.Phone,
			&c.PhoneNumbers,
			&c.NormalizedPhones,
			&c.Company,
			&c.Companies,
			&c.Position,
			&c.JobTitle,
			&c.Location,
			&c.Addresses,
			&c.ProfileURL,
			&c.ConnectedOn,
			&c.ConnectedOnParsed,
			&c.Birthday,
			&c.BirthdayParsed,
			&c.Notes,
			&c.Websites,
			&c.InstantMessageHandles,
			&c.OriginalCreatedAt,
			&c.OriginalCreatedAtParsed,
			&c.BookmarkedAt,
			&c.BookmarkedAtParsed,
			&c.SearchableText,
			&c.Source,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}
