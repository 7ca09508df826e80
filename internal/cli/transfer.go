package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"inkwell/internal/config"
	serviceBinder "inkwell/internal/service/binder"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var as, out string

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Write a project as a self-contained record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if as == "" && out != "" {
				as = filepath.Ext(out)
			}
			format, err := serviceBinder.ParseFormat(as)
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			record, err := s.Projects.ExportProject(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			data, err := serviceBinder.EncodeRecord(record, format)
			if err != nil {
				return writeErr(cmd, err)
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return writeErr(cmd, fmt.Errorf("write %s: %w", out, err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "Record format (json|yaml); defaults to the --out extension, then json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Create a new project from an exported record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if as == "" && path != "-" {
				as = filepath.Ext(path)
			}
			format, err := serviceBinder.ParseFormat(as)
			if err != nil {
				return writeErr(cmd, err)
			}

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				r = f
			}
			data, err := io.ReadAll(io.LimitReader(r, config.MaxImportBytes+1))
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(data) > config.MaxImportBytes {
				return writeErr(cmd, fmt.Errorf("%s exceeds %d bytes", path, config.MaxImportBytes))
			}

			record, err := serviceBinder.DecodeRecord(data, format)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			project, err := s.Projects.ImportProject(cmd.Context(), record)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, project)
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "Record format (json|yaml); defaults to the file extension, then json")
	return cmd
}
