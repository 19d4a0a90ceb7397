// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package airtable is a minimal client for the Airtable REST API.

It knows three operations on a table of a single base: list all records (following the
pagination offset), create a record and update a record. Nothing is cached and nothing
is retried.
*/
package airtable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultURL is the public Airtable REST endpoint
const DefaultURL = "https://api.airtable.com/v0"

// maxPageSize is the largest page Airtable hands out
const maxPageSize = 100

// Record is a single Airtable row
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime string                 `json:"createdTime,omitempty"`
	Fields      map[string]interface{} `json:"fields"`
}

// ListOptions narrows down a list request
type ListOptions struct {
	// FilterByFormula is an Airtable formula, only records for which it evaluates truthy are returned
	FilterByFormula string
	// MaxRecords limits the total number of records, 0 means all
	MaxRecords int
}

// Configuration describes the base the client talks to
type Configuration struct {
	URL     string
	BaseID  string
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client, Timeout is ignored then
	HTTPClient *http.Client
}

// Client talks to one Airtable base
type Client struct {
	url        string
	baseID     string
	token      string
	httpClient *http.Client
}

// New creates a new client for the configured base
func New(config Configuration) *Client {
	u := strings.TrimSuffix(config.URL, "/")
	if u == "" {
		u = DefaultURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		url:        u,
		baseID:     config.BaseID,
		token:      config.Token,
		httpClient: httpClient,
	}
}

// Error is a non-successful answer from Airtable
type Error struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Type != "" {
		return e.Type
	}
	return http.StatusText(e.StatusCode)
}

// List returns all records of table in the order Airtable returns them
func (c *Client) List(ctx context.Context, table string, options ListOptions) ([]Record, error) {
	records := []Record{}
	offset := ""
	for {
		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(maxPageSize))
		if options.FilterByFormula != "" {
			query.Set("filterByFormula", options.FilterByFormula)
		}
		if options.MaxRecords > 0 {
			query.Set("maxRecords", strconv.Itoa(options.MaxRecords))
		}
		if offset != "" {
			query.Set("offset", offset)
		}

		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+query.Encode(), nil, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)

		if page.Offset == "" || (options.MaxRecords > 0 && len(records) >= options.MaxRecords) {
			break
		}
		offset = page.Offset
	}
	return records, nil
}

// Create creates a new record in table
func (c *Client) Create(ctx context.Context, table string, fields map[string]interface{}) (Record, error) {
	var record Record
	err := c.do(ctx, http.MethodPost, c.tableURL(table), fieldsBody(fields), &record)
	return record, err
}

// Update changes the given fields of record id in table, other fields are left untouched
func (c *Client) Update(ctx context.Context, table string, id string, fields map[string]interface{}) (Record, error) {
	var record Record
	err := c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+url.PathEscape(id), fieldsBody(fields), &record)
	return record, err
}

func fieldsBody(fields map[string]interface{}) interface{} {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return struct {
		Fields map[string]interface{} `json:"fields"`
	}{fields}
}

func (c *Client) tableURL(table string) string {
	return c.url + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

func (c *Client) do(ctx context.Context, method string, u string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		j, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot marshal request: %w", err)
		}
		reader = bytes.NewReader(j)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		// the query may carry credentials in filterByFormula
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("%s %s: %w", method, req.URL.Path, urlErr.Err)
		}
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("cannot read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res.StatusCode, resBody)
	}
	if err := json.Unmarshal(resBody, result); err != nil {
		return fmt.Errorf("cannot decode response: %w", err)
	}
	return nil
}

// decodeError understands both {"error":{"type":..,"message":..}} and {"error":"TYPE"}
func decodeError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return e
	}
	var detailed struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detailed); err == nil {
		e.Type = detailed.Type
		e.Message = detailed.Message
		return e
	}
	var short string
	if err := json.Unmarshal(envelope.Error, &short); err == nil {
		e.Type = short
	}
	return e
}
