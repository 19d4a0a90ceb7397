// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package gateway

import (
	"github.com/goccy/go-json"

	"github.com/relabs-tech/kisii/core/airtable"
)

// Record is a remote record flattened for the REST api: its JSON form is
// the record's fields plus an "id" property holding the record identifier.
type Record struct {
	ID     string
	Fields map[string]interface{}
}

func newRecord(r airtable.Record) Record {
	fields := r.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return Record{ID: r.ID, Fields: fields}
}

// MarshalJSON flattens id and fields. The record identifier wins over a field named "id".
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Fields)+1)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat["id"] = r.ID
	return json.Marshal(flat)
}

// UnmarshalJSON is the inverse of MarshalJSON
func (r *Record) UnmarshalJSON(data []byte) error {
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	r.ID, _ = flat["id"].(string)
	delete(flat, "id")
	if flat == nil {
		flat = map[string]interface{}{}
	}
	r.Fields = flat
	return nil
}
