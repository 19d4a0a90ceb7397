// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package backend implements the REST api of the school application

Every table of the Airtable base is exposed as a resource below /api. A GET on the resource
lists all records, a POST creates a record. Admin settings are changed with a PUT on a single
record, users are read-only.

Example:

	GET  /api/teachers              -> [{"id":"recA1","Name":"Jane"}, ...]
	POST /api/teachers {"Name":"Jane"} -> {"id":"recA1","Name":"Jane"}
	PUT  /api/admin-settings/recS1 {"Value":"2"} -> {"id":"recS1","Key":"term","Value":"2"}

Records are flat JSON objects: the fields of the Airtable record plus "id".

Errors

Any error of the remote store is answered with status 500 and {"error": "<message>"}, the
message is passed on as is. The list routes of forms and students never fail, a failing
remote store yields an empty list.

Login

POST /api/login with {"email": ..., "password": ...} answers {"success": true, "user": {...}}
for an active user with exactly these credentials and 401 with
{"success": false, "message": "Invalid credentials or inactive account"} otherwise. No token is
issued.
*/
package backend
