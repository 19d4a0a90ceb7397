// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestClientPaths(t *testing.T) {
	client := NewWithRouter(nil)

	if p := client.Table("teachers").Path(); p != "/api/teachers" {
		t.Fatal("unexpected table path:", p)
	}
	if p := client.Table("case-conferences").Path(); p != "/api/case-conferences" {
		t.Fatal("unexpected table path:", p)
	}
}

func TestClientWithRouter(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/guardians/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			t.Error("default header missing")
		}
		body, _ := io.ReadAll(r.Body)
		w.Write([]byte(`{"id":"` + mux.Vars(r)["id"] + `","echo":` + string(body) + `}`))
	}).Methods(http.MethodPut)

	client := NewWithRouter(router).WithHeader("X-Test", "yes")

	var result struct {
		ID   string            `json:"id"`
		Echo map[string]string `json:"echo"`
	}
	status, err := client.Table("guardians").Update("recG", map[string]string{"Name": "Mama"}, &result)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK || result.ID != "recG" || result.Echo["Name"] != "Mama" {
		t.Fatalf("unexpected result %d %+v", status, result)
	}

	status, err = client.RawGet("/api/guardians/recG", nil)
	if err == nil || status != http.StatusMethodNotAllowed {
		t.Fatalf("expected method not allowed, got %d %v", status, err)
	}
}

func TestClientWithURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid credentials or inactive account"}`))
	}))
	defer server.Close()

	response, status, err := NewWithURL(server.URL+"/").Login("jane@kisii.ac.ke", "wrong")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusUnauthorized || response.Success || response.Message == "" {
		t.Fatalf("unexpected login response %d %+v", status, response)
	}
}
