// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/relabs-tech/kisii/core/airtable"
	"github.com/relabs-tech/kisii/core/configuration"
	"github.com/relabs-tech/kisii/core/logger"
)

// Store is the remote tabular store. It is satisfied by *airtable.Client.
type Store interface {
	List(ctx context.Context, table string, options airtable.ListOptions) ([]airtable.Record, error)
	Create(ctx context.Context, table string, fields map[string]interface{}) (airtable.Record, error)
	Update(ctx context.Context, table string, id string, fields map[string]interface{}) (airtable.Record, error)
}

// Gateway translates operations on logical tables into calls against the remote store
type Gateway struct {
	store  Store
	tables map[Table]TableRef
}

// New creates a gateway. The table references are resolved once and never change.
func New(store Store, tables configuration.Tables) *Gateway {
	if store == nil {
		panic("store is missing")
	}
	return &Gateway{
		store:  store,
		tables: resolveTables(tables),
	}
}

// Tables returns the resolved table references in the order of AllTables
func (g *Gateway) Tables() []TableRef {
	refs := make([]TableRef, 0, len(g.tables))
	for _, t := range AllTables {
		refs = append(refs, g.tables[t])
	}
	return refs
}

func (g *Gateway) ref(table Table) (TableRef, error) {
	ref, ok := g.tables[table]
	if !ok {
		return ref, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return ref, nil
}

// List returns all records of table in remote order.
//
// For tables with a fail-open policy a remote failure is logged and an empty list is
// returned, for all others the failure is returned as *FetchError.
func (g *Gateway) List(ctx context.Context, table Table) ([]Record, error) {
	ref, err := g.ref(table)
	if err != nil {
		return nil, err
	}
	rlog := logger.FromContext(ctx).WithField("table", table)

	remote, err := g.store.List(ctx, ref.ID, airtable.ListOptions{})
	if err != nil {
		if ref.Policy.FailOpenList {
			rlog.Errorf("get %s error: %s", table, err)
			return []Record{}, nil
		}
		return nil, &FetchError{Table: table, Err: err}
	}

	if ref.Policy.FilterByExample && len(remote) > 0 {
		rlog.Debugln(table, "table fields:", fieldNames(remote[:1]))
	}

	records := make([]Record, len(remote))
	for i, r := range remote {
		records[i] = newRecord(r)
	}
	return records, nil
}

// Create creates a new record in table with the given fields.
//
// For tables which filter by example, fields not present on any existing record are
// dropped silently before the record is created.
func (g *Gateway) Create(ctx context.Context, table Table, fields map[string]interface{}) (Record, error) {
	ref, err := g.ref(table)
	if err != nil {
		return Record{}, err
	}
	rlog := logger.FromContext(ctx).WithField("table", table)
	if ref.Policy.VerboseWrites {
		rlog.Infof("creating %s with data: %v", table, fields)
	}

	record, err := g.create(ctx, ref, fields)
	if err != nil {
		if ref.Policy.VerboseWrites {
			rlog.Errorf("create %s error: %s", table, err)
			rlog.Errorf("error details: %#v", err)
		}
		return Record{}, err
	}

	if ref.Policy.VerboseWrites {
		rlog.Infof("%s created successfully: %s", table, record.ID)
	}
	return record, nil
}

func (g *Gateway) create(ctx context.Context, ref TableRef, fields map[string]interface{}) (Record, error) {
	if ref.Policy.FilterByExample {
		existing, err := g.store.List(ctx, ref.ID, airtable.ListOptions{})
		if err != nil {
			return Record{}, &WriteError{Table: ref.Name, Op: "create", Err: err}
		}
		if len(existing) > 0 {
			// union over all listed forms, not only the first record's fields
			known := fieldNames(existing)
			logger.FromContext(ctx).Debugln("available", ref.Name, "fields:", known)
			fields = filterFields(fields, known)
			logger.FromContext(ctx).Debugln("filtered data for creation:", fields)
		}
	}

	remote, err := g.store.Create(ctx, ref.ID, fields)
	if err != nil {
		return Record{}, &WriteError{Table: ref.Name, Op: "create", Err: err}
	}
	return newRecord(remote), nil
}

// Update changes the given fields of record id. Only tables with an updatable policy
// accept updates.
func (g *Gateway) Update(ctx context.Context, table Table, id string, fields map[string]interface{}) (Record, error) {
	ref, err := g.ref(table)
	if err != nil {
		return Record{}, err
	}
	if !ref.Policy.Updatable {
		return Record{}, fmt.Errorf("%w: %s", ErrNotUpdatable, table)
	}
	remote, err := g.store.Update(ctx, ref.ID, id, fields)
	if err != nil {
		return Record{}, &WriteError{Table: table, Op: "update", Err: err}
	}
	return newRecord(remote), nil
}

// Authenticate returns the active user with exactly this email and password, or nil.
//
// The password is compared in plaintext against the "Password Hash" field by the remote
// store. A failing query is logged and reported as no match, the returned error is
// always nil.
func (g *Gateway) Authenticate(ctx context.Context, email, password string) (*Record, error) {
	ref, err := g.ref(Users)
	if err != nil {
		return nil, err
	}
	formula := fmt.Sprintf("AND({Email} = '%s', {Password Hash} = '%s', {Status} = 'Active')",
		formulaString(email), formulaString(password))

	remote, err := g.store.List(ctx, ref.ID, airtable.ListOptions{FilterByFormula: formula})
	if err != nil {
		logger.FromContext(ctx).Errorln("authentication error:", &AuthenticationQueryError{Err: err})
		return nil, nil
	}
	if len(remote) == 0 {
		return nil, nil
	}
	record := newRecord(remote[0])
	return &record, nil
}

// formulaString escapes s for use inside a single quoted formula string literal
func formulaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// fieldNames returns the sorted union of all field names of records
func fieldNames(records []airtable.Record) []string {
	seen := map[string]bool{}
	names := []string{}
	for _, r := range records {
		for name := range r.Fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// filterFields returns the subset of fields whose names are in known
func filterFields(fields map[string]interface{}, known []string) map[string]interface{} {
	filtered := map[string]interface{}{}
	for _, name := range known {
		if v, ok := fields[name]; ok {
			filtered[name] = v
		}
	}
	return filtered
}
