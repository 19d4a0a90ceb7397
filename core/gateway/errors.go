// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package gateway

import "errors"

var (
	// ErrUnknownTable is returned for a table which has no reference
	ErrUnknownTable = errors.New("unknown table")
	// ErrNotUpdatable is returned when updating a table which does not permit updates
	ErrNotUpdatable = errors.New("table does not permit updates")
)

// FetchError is returned when reading records from the remote store failed.
// The message is the one of the remote store.
type FetchError struct {
	Table Table
	Err   error
}

func (e *FetchError) Error() string { return e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError is returned when creating or updating a record failed
type WriteError struct {
	Table Table
	Op    string
	Err   error
}

func (e *WriteError) Error() string { return e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }

// AuthenticationQueryError is a failed credential lookup. It is only logged,
// callers see a failed lookup as "no match".
type AuthenticationQueryError struct {
	Err error
}

func (e *AuthenticationQueryError) Error() string { return "authentication query failed: " + e.Err.Error() }

func (e *AuthenticationQueryError) Unwrap() error { return e.Err }
