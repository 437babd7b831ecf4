package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/hackvm"
	"github.com/deepnoodle-ai/hackvm/vm"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run file.vm",
		Short: "Translate, assemble and execute a VM file on the emulator",
		Long: `Run translates a VM file, assembles it and executes it on the Hack
emulator until the program halts. The final stack pointer and stack
contents are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			program, err := compileFile(cmd, args[0], hackvm.WithLogger(a.logger))
			if err != nil {
				return err
			}
			start := time.Now()
			result, err := hackvm.Run(cmd.Context(), program,
				hackvm.WithMaxSteps(a.cfg.GetInt("max-steps")),
				hackvm.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			a.logger.Debug().Dur("elapsed", time.Since(start)).Msg("run complete")

			out := cmd.OutOrStdout()
			if strings.EqualFold(format, "json") {
				return writeJSON(out, result, isColorWriter(out))
			}
			fmt.Fprintf(out, "sp: %d\n", result.SP)
			fmt.Fprintf(out, "stack: %v\n", result.Stack)
			fmt.Fprintf(out, "steps: %d\n", result.Steps)
			return nil
		},
	}
	cmd.Flags().Int("max-steps", vm.DefaultMaxSteps, "stop after this many instructions")
	cmd.Flags().StringP("output", "o", "text", "output format (json, text)")
	a.cfg.BindPFlag("max-steps", cmd.Flags().Lookup("max-steps"))
	return cmd
}
