// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package configuration holds the service configuration, decoded from the environment.

All values have defaults, so the service starts with an empty environment. The table
identifiers fall back to the identifiers of the production Airtable base.
*/
package configuration

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"
)

// Tables holds the remote table identifier for every logical table
type Tables struct {
	Teachers        string `env:"TEACHERS_TABLE_ID,default=tblWPt0tiWwqA2dUW" description:"Airtable table id of the teachers table"`
	Forms           string `env:"FORMS_TABLE_ID,default=tbl79ZFvV9wxCNQkq" description:"Airtable table id of the forms table"`
	CaseConferences string `env:"CASE_CONFERENCES_TABLE_ID,default=tblRZd4Qil5VWcmio" description:"Airtable table id of the case conferences table"`
	Guardians       string `env:"GUARDIANS_TABLE_ID,default=tbl0PVjfkbzORzsAt" description:"Airtable table id of the guardians table"`
	DocumentLibrary string `env:"DOCUMENT_LIBRARY_TABLE_ID,default=tblcFKmrD62a9Vl5r" description:"Airtable table id of the document library"`
	AdminSettings   string `env:"ADMIN_SETTINGS_TABLE_ID,default=tbl1VZTrlTmu4V7c7" description:"Airtable table id of the admin settings table"`
	Users           string `env:"USERS_TABLE_ID,default=tblCbLEMflLMf1QiG" description:"Airtable table id of the users table"`
	Students        string `env:"STUDENTS_TABLE_ID,default=tblCHg6hnJ0oA0iUo" description:"Airtable table id of the students table"`
}

// Configuration is the complete service configuration
type Configuration struct {
	Port     int    `env:"PORT,default=5000" description:"the port the http server listens on"`
	LogLevel string `env:"LOG_LEVEL,default=info" description:"the logrus log level"`

	APIToken string        `env:"AIRTABLE_API_TOKEN" description:"the Airtable personal access token"`
	BaseID   string        `env:"AIRTABLE_BASE_ID" description:"the Airtable base (workspace) id"`
	APIURL   string        `env:"AIRTABLE_API_URL,default=https://api.airtable.com/v0" description:"the Airtable REST endpoint"`
	Timeout  time.Duration `env:"AIRTABLE_TIMEOUT,default=30s" description:"timeout for a single Airtable request"`

	Tables Tables
}

// Load decodes the configuration from the environment
func Load() (*Configuration, error) {
	config := &Configuration{}
	if err := envdecode.Decode(config); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return config, nil
}

// Level returns the configured log level, defaulting to info
func (c *Configuration) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Address returns the listen address for the http server
func (c *Configuration) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// EnvironmentCheck returns loggable facts about the remote store configuration.
// The token itself is never part of it.
func (c *Configuration) EnvironmentCheck() logrus.Fields {
	token := "MISSING"
	if c.APIToken != "" {
		token = "SET"
	}
	base := c.BaseID
	if base == "" {
		base = "MISSING"
	}
	return logrus.Fields{
		"AIRTABLE_API_TOKEN": token,
		"AIRTABLE_BASE_ID":   base,
		"TEACHERS_TABLE_ID":  c.Tables.Teachers,
	}
}
