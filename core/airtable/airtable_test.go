// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package airtable

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Configuration{URL: server.URL + "/", BaseID: "appBase", Token: "pat-token"})
}

func TestListFollowsOffset(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/appBase/tblTeachers", r.URL.Path)
		assert.Equal(t, "Bearer pat-token", r.Header.Get("Authorization"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))

		switch r.URL.Query().Get("offset") {
		case "":
			w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Name":"Jane"}},{"id":"rec2","fields":{"Name":"John"}}],"offset":"itr2"}`))
		case "itr2":
			w.Write([]byte(`{"records":[{"id":"rec3","fields":{"Name":"Achieng"}}]}`))
		default:
			t.Errorf("unexpected offset %s", r.URL.Query().Get("offset"))
		}
	})

	records, err := client.List(context.Background(), "tblTeachers", ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"rec1", "rec2", "rec3"}, []string{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, "Achieng", records[2].Fields["Name"])
}

func TestListEmptyTable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records":[]}`))
	})
	records, err := client.List(context.Background(), "tblForms", ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListWithFormula(t *testing.T) {
	formula := "AND({Email} = 'a@b.c', {Status} = 'Active')"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, formula, r.URL.Query().Get("filterByFormula"))
		assert.Equal(t, "1", r.URL.Query().Get("maxRecords"))
		w.Write([]byte(`{"records":[{"id":"recU","fields":{"Email":"a@b.c"}}],"offset":"more"}`))
	})
	records, err := client.List(context.Background(), "tblUsers", ListOptions{FilterByFormula: formula, MaxRecords: 1})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recU", records[0].ID)
}

func TestCreate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appBase/tblTeachers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var request struct {
			Fields map[string]interface{} `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(body, &request))
		assert.Equal(t, "Jane", request.Fields["Name"])

		w.Write([]byte(`{"id":"recNew","createdTime":"2024-01-01T00:00:00.000Z","fields":{"Name":"Jane"}}`))
	})
	record, err := client.Create(context.Background(), "tblTeachers", map[string]interface{}{"Name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "recNew", record.ID)
	assert.Equal(t, "Jane", record.Fields["Name"])
}

func TestCreateNilFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"fields":{}}`, string(body))
		w.Write([]byte(`{"id":"recEmpty","fields":{}}`))
	})
	record, err := client.Create(context.Background(), "tblTeachers", nil)
	require.NoError(t, err)
	assert.Equal(t, "recEmpty", record.ID)
}

func TestUpdate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appBase/tblSettings/recS1", r.URL.Path)
		w.Write([]byte(`{"id":"recS1","fields":{"Term":"2","School":"Kisii"}}`))
	})
	record, err := client.Update(context.Background(), "tblSettings", "recS1", map[string]interface{}{"Term": "2"})
	require.NoError(t, err)
	assert.Equal(t, "recS1", record.ID)
	assert.Equal(t, "Kisii", record.Fields["School"])
}

func TestErrors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		message string
		errType string
	}{
		{"detailed", http.StatusUnprocessableEntity, `{"error":{"type":"UNKNOWN_FIELD_NAME","message":"Unknown field name: \"Colour\""}}`, `Unknown field name: "Colour"`, "UNKNOWN_FIELD_NAME"},
		{"short", http.StatusNotFound, `{"error":"NOT_FOUND"}`, "NOT_FOUND", "NOT_FOUND"},
		{"no body", http.StatusBadGateway, ``, "Bad Gateway", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			_, err := client.Update(context.Background(), "tblSettings", "recMissing", nil)
			require.Error(t, err)

			var airtableErr *Error
			require.True(t, errors.As(err, &airtableErr))
			assert.Equal(t, tc.status, airtableErr.StatusCode)
			assert.Equal(t, tc.errType, airtableErr.Type)
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := New(Configuration{URL: server.URL, BaseID: "appBase"})
	_, err := client.List(context.Background(), "tblForms", ListOptions{})
	assert.Error(t, err)
}

func TestTransportErrorHidesQuery(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := New(Configuration{URL: server.URL, BaseID: "appBase"})
	_, err := client.List(context.Background(), "tblUsers", ListOptions{
		FilterByFormula: "AND({Email} = 'jane@x.ke', {Password Hash} = 'TopSecretPw42')",
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "TopSecretPw42")
	assert.NotContains(t, err.Error(), "filterByFormula")
	assert.Contains(t, err.Error(), "/appBase/tblUsers")
}

func TestTransportErrorKeepsCause(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.List(ctx, "tblForms", ListOptions{})
	assert.True(t, errors.Is(err, context.Canceled), err)
}
