// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/folio/pkg/types"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported target formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range types.Formats() {
			kind := "text"
			if f.Binary() {
				kind = "binary"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", f, kind)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
