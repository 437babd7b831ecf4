package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/hackvm"
)

func newTranslateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [-i] input.vm [-o output.asm]",
		Short: "Translate a VM file into Hack assembly",
		Long: `Translate reads a VM source file and writes the equivalent Hack assembly.

By default the output is written next to the input with the extension
replaced by .asm. The command fails if the input does not exist or if the
output already exists, unless --force is given. Output is written to a
temporary file and moved into place only after translation succeeds.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			if input == "" && len(args) > 0 {
				input = args[0]
			} else if input != "" && len(args) > 0 {
				return errors.New("input given both as -i and as an argument")
			}
			if input == "" {
				return errors.New("no input file provided")
			}
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = defaultOutput(input)
			}
			err := translateFile(cmd.Context(), input, output, a.cfg.GetBool("force"),
				hackvm.WithComments(a.cfg.GetBool("comments")),
				hackvm.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			a.logger.Info().Str("input", input).Str("output", output).Msg("translated")
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "VM source file")
	cmd.Flags().StringP("output", "o", "", "assembly output file (default: input with .asm extension)")
	cmd.Flags().Bool("comments", false, "annotate the output with the VM source")
	cmd.Flags().Bool("force", false, "overwrite the output file if it exists")
	a.cfg.BindPFlag("comments", cmd.Flags().Lookup("comments"))
	a.cfg.BindPFlag("force", cmd.Flags().Lookup("force"))
	return cmd
}

func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".asm"
}

// translateFile translates input into output. The output file only appears
// once translation has succeeded.
func translateFile(ctx context.Context, input, output string, force bool, opts ...hackvm.Option) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	defer in.Close()

	if !force {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("output file %s already exists (use --force to overwrite)", output)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("output file: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	opts = append([]hackvm.Option{hackvm.WithFilename(input)}, opts...)
	if err := hackvm.Translate(ctx, in, tmp, opts...); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), output)
}
