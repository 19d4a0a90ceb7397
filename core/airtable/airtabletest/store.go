// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package airtabletest provides an in-memory stand-in for an Airtable base.

Store has the same List, Create and Update methods as *airtable.Client. Tables may declare
their fields, then unknown field names are rejected like Airtable does. Formulas are
understood as far as the service uses them: an AND of {Field} = 'value' comparisons.
*/
package airtabletest

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/relabs-tech/kisii/core/airtable"
)

// Store is an in-memory Airtable base
type Store struct {
	mu      sync.Mutex
	tables  map[string][]airtable.Record
	schemas map[string]map[string]bool
	next    int
	err     error
}

// NewStore returns an empty base
func NewStore() *Store {
	return &Store{
		tables:  map[string][]airtable.Record{},
		schemas: map[string]map[string]bool{},
	}
}

// FailWith makes every subsequent call fail with err. A nil err heals the store.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Declare restricts table to the given field names
func (s *Store) Declare(table string, fields ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	schema := map[string]bool{}
	for _, f := range fields {
		schema[f] = true
	}
	s.schemas[table] = schema
}

// Seed adds records to table without any checks and returns them
func (s *Store) Seed(table string, fields ...map[string]interface{}) []airtable.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var added []airtable.Record
	for _, f := range fields {
		r := airtable.Record{ID: s.newID(), Fields: copyFields(f)}
		s.tables[table] = append(s.tables[table], r)
		added = append(added, r)
	}
	return added
}

// Records returns a copy of all records in table
func (s *Store) Records(table string) []airtable.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := []airtable.Record{}
	for _, r := range s.tables[table] {
		records = append(records, airtable.Record{ID: r.ID, Fields: copyFields(r.Fields)})
	}
	return records
}

// List returns the records of table matching the options' formula
func (s *Store) List(ctx context.Context, table string, options airtable.ListOptions) ([]airtable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	conditions, err := parseFormula(options.FilterByFormula)
	if err != nil {
		return nil, err
	}
	records := []airtable.Record{}
	for _, r := range s.tables[table] {
		if !matches(r, conditions) {
			continue
		}
		records = append(records, airtable.Record{ID: r.ID, Fields: copyFields(r.Fields)})
		if options.MaxRecords > 0 && len(records) == options.MaxRecords {
			break
		}
	}
	return records, nil
}

// Create adds a record to table
func (s *Store) Create(ctx context.Context, table string, fields map[string]interface{}) (airtable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return airtable.Record{}, s.err
	}
	if err := s.check(table, fields); err != nil {
		return airtable.Record{}, err
	}
	r := airtable.Record{ID: s.newID(), Fields: copyFields(fields)}
	s.tables[table] = append(s.tables[table], r)
	return airtable.Record{ID: r.ID, Fields: copyFields(r.Fields)}, nil
}

// Update merges fields into record id of table
func (s *Store) Update(ctx context.Context, table string, id string, fields map[string]interface{}) (airtable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return airtable.Record{}, s.err
	}
	if err := s.check(table, fields); err != nil {
		return airtable.Record{}, err
	}
	for i, r := range s.tables[table] {
		if r.ID != id {
			continue
		}
		for k, v := range fields {
			r.Fields[k] = v
		}
		s.tables[table][i] = r
		return airtable.Record{ID: r.ID, Fields: copyFields(r.Fields)}, nil
	}
	return airtable.Record{}, &airtable.Error{
		StatusCode: http.StatusNotFound,
		Type:       "MODEL_ID_NOT_FOUND",
		Message:    fmt.Sprintf("Could not find a record with ID %q.", id),
	}
}

func (s *Store) check(table string, fields map[string]interface{}) error {
	schema, ok := s.schemas[table]
	if !ok {
		return nil
	}
	for name := range fields {
		if !schema[name] {
			return &airtable.Error{
				StatusCode: http.StatusUnprocessableEntity,
				Type:       "UNKNOWN_FIELD_NAME",
				Message:    fmt.Sprintf("Unknown field name: %q", name),
			}
		}
	}
	return nil
}

func (s *Store) newID() string {
	s.next++
	return fmt.Sprintf("rec%014d", s.next)
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	c := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		c[k] = v
	}
	return c
}

type condition struct {
	field string
	value string
}

var comparison = regexp.MustCompile(`\{([^}]+)\} = '((?:[^'\\]|\\.)*)'`)

func parseFormula(formula string) ([]condition, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return nil, nil
	}
	matches := comparison.FindAllStringSubmatch(formula, -1)
	if len(matches) == 0 {
		return nil, &airtable.Error{
			StatusCode: http.StatusUnprocessableEntity,
			Type:       "INVALID_FILTER_BY_FORMULA",
			Message:    "The formula for filtering records is invalid",
		}
	}
	conditions := make([]condition, len(matches))
	for i, m := range matches {
		conditions[i] = condition{field: m[1], value: unescape(m[2])}
	}
	return conditions, nil
}

func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func matches(r airtable.Record, conditions []condition) bool {
	for _, c := range conditions {
		if fmt.Sprint(r.Fields[c.field]) != c.value {
			return false
		}
	}
	return true
}
