// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/kisii/core/gateway"
	"github.com/relabs-tech/kisii/core/logger"
)

// tableRoute describes which operations a table exposes
type tableRoute struct {
	table  gateway.Table
	create bool
	update bool
}

var tableRoutes = []tableRoute{
	{table: gateway.Teachers, create: true},
	{table: gateway.Forms, create: true},
	{table: gateway.CaseConferences, create: true},
	{table: gateway.Guardians, create: true},
	{table: gateway.Documents, create: true},
	{table: gateway.AdminSettings, update: true},
	{table: gateway.Users},
	{table: gateway.Students, create: true},
}

// handleRoutes adds list, create and update routes for all tables
func (b *Backend) handleRoutes(router *mux.Router) {
	for _, tr := range tableRoutes {
		b.createTableResource(router, tr)
	}
}

func (b *Backend) createTableResource(router *mux.Router, tr tableRoute) {
	table := tr.table
	listRoute := "/api/" + string(table)
	itemRoute := listRoute + "/{id}"

	rlog := logger.Default()
	rlog.Debugln("create table resource:", table)

	rlog.Debugln("  handle table route:", listRoute, "GET")
	router.HandleFunc(listRoute, func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		records, err := b.gateway.List(r.Context(), table)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, r, http.StatusOK, records)
	}).Methods(http.MethodGet)

	if tr.create {
		rlog.Debugln("  handle table route:", listRoute, "POST")
		router.HandleFunc(listRoute, func(w http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
			fields, err := readFields(r)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, err)
				return
			}
			record, err := b.gateway.Create(r.Context(), table, fields)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, r, http.StatusOK, record)
		}).Methods(http.MethodPost)
	}

	if tr.update {
		rlog.Debugln("  handle table route:", itemRoute, "PUT")
		router.HandleFunc(itemRoute, func(w http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
			fields, err := readFields(r)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, err)
				return
			}
			record, err := b.gateway.Update(r.Context(), table, mux.Vars(r)["id"], fields)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, r, http.StatusOK, record)
		}).Methods(http.MethodPut)
	}
}
