// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package client provides easy and fast access to the school REST api

A client created with NewWithRouter does not marshal HTTP, it talks directly to the mux
router, which makes it perfectly suited for unit tests. A client created with NewWithURL
talks to a running server.
*/
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// Client provides easy access to the REST API.
type Client struct {
	router     *mux.Router
	httpClient *http.Client
	url        string
	ctx        context.Context

	defaultHeaders map[string]string
}

// NewWithRouter creates a client to make pseudo-REST requests to the backend,
// through the mux router
func NewWithRouter(router *mux.Router) Client {
	return Client{
		router:         router,
		defaultHeaders: map[string]string{},
	}
}

// NewWithURL creates a client to make REST requests to the backend
func NewWithURL(url string) Client {
	return Client{
		url:            strings.TrimSuffix(url, "/"),
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		defaultHeaders: map[string]string{},
	}
}

// WithHeader returns a new client with a default header added
func (c Client) WithHeader(key string, value string) Client {
	headers := map[string]string{key: value}
	for k, v := range c.defaultHeaders {
		if k != key {
			headers[k] = v
		}
	}
	c.defaultHeaders = headers
	return c
}

// WithContext returns a new client with specific request context
func (c Client) WithContext(ctx context.Context) Client {
	c.ctx = ctx
	return c
}

// Context returns the request context of the client
func (c Client) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Table represents one table resource
type Table struct {
	client Client
	name   string
}

// Table returns a new table client, name is the REST resource, e.g. "case-conferences"
func (c Client) Table(name string) Table {
	return Table{client: c, name: name}
}

// Path returns the path of the table resource
func (t Table) Path() string {
	return "/api/" + t.name
}

// List lists all records of the table
func (t Table) List(result interface{}) (int, error) {
	return t.client.RawGet(t.Path(), result)
}

// Create creates a new record
func (t Table) Create(body interface{}, result interface{}) (int, error) {
	return t.client.RawPost(t.Path(), body, result)
}

// Update updates record id
func (t Table) Update(id string, body interface{}, result interface{}) (int, error) {
	return t.client.RawPut(t.Path()+"/"+url.PathEscape(id), body, result)
}

// LoginResponse is the answer of a login request
type LoginResponse struct {
	Success bool                   `json:"success"`
	User    map[string]interface{} `json:"user,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Login checks credentials. It returns the response for success and for rejected credentials.
func (c Client) Login(email, password string) (LoginResponse, int, error) {
	var response LoginResponse
	body := map[string]string{"email": email, "password": password}
	status, data, err := c.do(http.MethodPost, "/api/login", body)
	if err != nil {
		return response, status, err
	}
	if status != http.StatusOK && status != http.StatusUnauthorized {
		return response, status, statusError(status, data)
	}
	err = json.Unmarshal(data, &response)
	return response, status, err
}

// RawGet gets the resource from path. Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
func (c Client) RawGet(path string, result interface{}) (int, error) {
	return c.expectOK(http.MethodGet, path, nil, result)
}

// RawPost posts a resource to path. Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
func (c Client) RawPost(path string, body interface{}, result interface{}) (int, error) {
	return c.expectOK(http.MethodPost, path, body, result)
}

// RawPut puts a resource to path. Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
func (c Client) RawPut(path string, body interface{}, result interface{}) (int, error) {
	return c.expectOK(http.MethodPut, path, body, result)
}

func (c Client) expectOK(method, path string, body interface{}, result interface{}) (int, error) {
	status, data, err := c.do(method, path, body)
	if err != nil {
		return status, err
	}
	if status != http.StatusOK {
		return status, statusError(status, data)
	}
	if result == nil || len(data) == 0 {
		return status, nil
	}
	if raw, ok := result.(*[]byte); ok {
		*raw = data
		return status, nil
	}
	return status, json.Unmarshal(data, result)
}

func statusError(status int, data []byte) error {
	return fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
		status, http.StatusOK, strings.TrimSpace(string(data)))
}

func (c Client) do(method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		if raw, ok := body.([]byte); ok {
			reader = bytes.NewReader(raw)
		} else {
			j, err := json.MarshalIndent(body, "", "  ")
			if err != nil {
				return http.StatusBadRequest, nil, err
			}
			reader = bytes.NewReader(j)
		}
	}

	r, err := http.NewRequestWithContext(c.Context(), method, c.url+path, reader)
	if err != nil {
		return http.StatusBadRequest, nil, err
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.defaultHeaders {
		r.Header.Set(key, value)
	}

	if c.router != nil {
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, r)
		return rec.Code, rec.Body.Bytes(), nil
	}

	res, err := c.httpClient.Do(r)
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	return res.StatusCode, data, err
}
