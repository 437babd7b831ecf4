package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/hackvm"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check file.vm...",
		Short: "Report every problem in VM files without writing output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *multierror.Error
			for _, path := range args {
				if err := checkFile(cmd, path); err != nil {
					var merr *multierror.Error
					if stderrors.As(err, &merr) {
						result = multierror.Append(result, merr.Errors...)
					} else {
						result = multierror.Append(result, err)
					}
				}
			}
			if result == nil {
				a.logger.Info().Int("files", len(args)).Msg("no problems found")
				return nil
			}
			fmt.Fprint(cmd.ErrOrStderr(), formatError(result, isColorWriter(cmd.ErrOrStderr())))
			return silentError{msg: fmt.Sprintf("found %d problems", len(result.Errors))}
		},
	}
}

func checkFile(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return hackvm.Check(cmd.Context(), f, hackvm.WithFilename(path))
}
