// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/kisii/core/gateway"
)

var flagJSON bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the resolved table references",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTables(cmd.OutOrStdout(), newGateway(config).Tables(), flagJSON)
	},
}

func init() {
	tablesCmd.Flags().BoolVar(&flagJSON, "json", false, "print as JSON")
}

func printTables(w io.Writer, refs []gateway.TableRef, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(refs, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, ref := range refs {
		var flags []string
		if ref.Policy.FailOpenList {
			flags = append(flags, "fail-open")
		}
		if ref.Policy.FilterByExample {
			flags = append(flags, "filter-by-example")
		}
		if ref.Policy.Updatable {
			flags = append(flags, "updatable")
		}
		if _, err := fmt.Fprintf(w, "%-18s %-20s %v\n", ref.Name, ref.ID, flags); err != nil {
			return err
		}
	}
	return nil
}
