package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if strings.EqualFold(format, "json") {
				return writeJSON(out, map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				}, isColorWriter(out))
			}
			_, err := fmt.Fprintln(out, version)
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (json, text)")
	return cmd
}
