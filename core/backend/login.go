// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/kisii/core/gateway"
	"github.com/relabs-tech/kisii/core/logger"
)

// loginRequest accepts any JSON value for the credentials, they are compared as text
type loginRequest struct {
	Email    interface{} `json:"email"`
	Password interface{} `json:"password"`
}

// credential formats a credential value as text, a missing value is empty
func credential(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

type loginResponse struct {
	Success bool            `json:"success"`
	User    *gateway.Record `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
}

// handleLogin checks credentials against the users table. No token is issued,
// every other request stays unauthenticated.
func (b *Backend) handleLogin(router *mux.Router) {
	logger.Default().Debugln("  handle login route: /api/login POST")
	router.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		rlog := logger.FromContext(r.Context())
		rlog.Infoln("called route for", r.URL, r.Method)

		var credentials loginRequest
		body, err := readBody(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &credentials); err != nil {
				writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
				return
			}
		}

		email, password := credential(credentials.Email), credential(credentials.Password)
		user, err := b.gateway.Authenticate(r.Context(), email, password)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		_, rlog = logger.ContextWithLoggerIdentity(r.Context(), email)
		if user == nil {
			rlog.Infoln("login rejected")
			writeJSON(w, r, http.StatusUnauthorized, loginResponse{
				Success: false,
				Message: "Invalid credentials or inactive account",
			})
			return
		}
		rlog.Infoln("login succeeded for user", user.ID)
		writeJSON(w, r, http.StatusOK, loginResponse{Success: true, User: user})
	}).Methods(http.MethodPost)
}
