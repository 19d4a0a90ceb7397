// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/kisii/core/logger"
)

// readBody returns the request body with surrounding white space removed. A missing body is empty.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(body), nil
}

// readFields reads a JSON object from the request body. An empty body is an empty object.
func readFields(r *http.Request) (map[string]interface{}, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if len(body) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if fields == nil { // literal null
		fields = map[string]interface{}{}
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.FromContext(r.Context()).Errorln("cannot marshal response:", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError answers with {"error": message}. The message is passed on unchanged.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger.FromContext(r.Context()).Errorf("%s %s: %s", r.Method, r.URL.Path, err)
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
