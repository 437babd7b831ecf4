package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/hackvm"
	"github.com/deepnoodle-ai/hackvm/dis"
)

func newDisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis file.vm",
		Short: "List the assembly generated for each VM instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			program, err := compileFile(cmd, args[0], hackvm.WithLogger(a.logger))
			if err != nil {
				return err
			}
			entries := program.Listing()
			out := cmd.OutOrStdout()
			if strings.EqualFold(format, "json") {
				return writeJSON(out, entries, isColorWriter(out))
			}
			return dis.Print(entries, out)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (json, text)")
	return cmd
}

func compileFile(cmd *cobra.Command, path string, opts ...hackvm.Option) (*hackvm.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts = append([]hackvm.Option{hackvm.WithFilename(path)}, opts...)
	return hackvm.Compile(cmd.Context(), string(data), opts...)
}
