// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package gateway

import (
	"github.com/relabs-tech/kisii/core/configuration"
)

// Table is the logical name of a remote table. It doubles as the REST resource name.
type Table string

// all logical tables
const (
	Teachers        Table = "teachers"
	Forms           Table = "forms"
	CaseConferences Table = "case-conferences"
	Guardians       Table = "guardians"
	Documents       Table = "documents"
	AdminSettings   Table = "admin-settings"
	Users           Table = "users"
	Students        Table = "students"
)

// AllTables lists the logical tables in a stable order
var AllTables = []Table{Teachers, Forms, CaseConferences, Guardians, Documents, AdminSettings, Users, Students}

// Policy describes how the gateway treats a table
type Policy struct {
	// FailOpenList makes a failed list return an empty result instead of an error
	FailOpenList bool `json:"fail_open_list"`
	// VerboseWrites logs payload and outcome of every create
	VerboseWrites bool `json:"verbose_writes"`
	// FilterByExample drops every submitted field which is not present on an existing record
	FilterByExample bool `json:"filter_by_example"`
	// Updatable permits partial updates of single records
	Updatable bool `json:"updatable"`
}

// policies lists every table which deviates from plain pass-through
var policies = map[Table]Policy{
	Forms:         {FailOpenList: true, VerboseWrites: true, FilterByExample: true},
	Students:      {FailOpenList: true, VerboseWrites: true},
	AdminSettings: {Updatable: true},
}

// TableRef binds a logical table to its remote table identifier
type TableRef struct {
	Name   Table  `json:"name"`
	ID     string `json:"id"`
	Policy Policy `json:"policy"`
}

func resolveTables(ids configuration.Tables) map[Table]TableRef {
	remote := map[Table]string{
		Teachers:        ids.Teachers,
		Forms:           ids.Forms,
		CaseConferences: ids.CaseConferences,
		Guardians:       ids.Guardians,
		Documents:       ids.DocumentLibrary,
		AdminSettings:   ids.AdminSettings,
		Users:           ids.Users,
		Students:        ids.Students,
	}
	refs := make(map[Table]TableRef, len(remote))
	for _, t := range AllTables {
		refs[t] = TableRef{Name: t, ID: remote[t], Policy: policies[t]}
	}
	return refs
}
