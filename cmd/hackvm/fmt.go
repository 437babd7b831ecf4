package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/hackvm"
)

func newFmtCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt file.vm",
		Short: "Print VM source in canonical form",
		Long: `Fmt prints one instruction per line with single spaces between words.
Comments and blank lines are dropped. With -w the file is rewritten in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			var buf bytes.Buffer
			if err := hackvm.Format(cmd.Context(), f, &buf, hackvm.WithFilename(path)); err != nil {
				return err
			}
			if write, _ := cmd.Flags().GetBool("write"); write {
				if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
					return err
				}
				a.logger.Info().Str("file", path).Msg("formatted")
				return nil
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}
	cmd.Flags().BoolP("write", "w", false, "write result to the source file")
	return cmd
}
