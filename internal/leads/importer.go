package leads

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ImportResult summarizes a CSV import: how many rows were queued for insert
// and per-row validation errors for the rest.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// ImportCSV reads a header-keyed CSV of leads and bulk-inserts the valid rows
// with source CSV. Rows missing a phone or first name are reported by row
// number and skipped; duplicate phone numbers are silently ignored by the
// repository.
//
// Recognized headers (case-insensitive): firstName/first_name,
// lastName/last_name, phone, email, company, timezone, notes.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ImportResult{Errors: []string{}}, nil
		}
		return ImportResult{}, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	res := ImportResult{Errors: []string{}}
	batch := []Lead{}
	now := s.clock().UTC()

	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, err
		}
		row++

		firstName := field(record, cols, "firstname", "first_name")
		lastName := field(record, cols, "lastname", "last_name")
		phone := field(record, cols, "phone")

		if phone == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Missing phone number", row))
			continue
		}
		if firstName == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Missing first name", row))
			continue
		}

		batch = append(batch, Lead{
			ID:        uuid.NewString(),
			FirstName: firstName,
			LastName:  lastName,
			Phone:     phone,
			Email:     field(record, cols, "email"),
			Company:   field(record, cols, "company"),
			Timezone:  field(record, cols, "timezone"),
			Notes:     field(record, cols, "notes"),
			Status:    StatusNew,
			Source:    SourceCSV,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(batch) > 0 {
		inserted, err := s.repo.BulkInsert(ctx, batch)
		if err != nil {
			return ImportResult{}, err
		}
		res.Imported = inserted
	}
	return res, nil
}

func field(record []string, cols map[string]int, names ...string) string {
	for _, name := range names {
		if i, ok := cols[name]; ok && i < len(record) {
			if v := strings.TrimSpace(record[i]); v != "" {
				return v
			}
		}
	}
	return ""
}
