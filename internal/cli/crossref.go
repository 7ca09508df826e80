package cli

import (
	models "inkwell/internal/domain/models/binder"

	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <project-id>",
		Short: "Print a project's binder tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			tree, err := s.Items.GetTree(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, tree)
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <project-id>",
		Short: "Count documents and words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			stats, err := s.Items.Stats(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, stats)
		},
	}
}

func newMatrixCmd(app *App) *cobra.Command {
	var x, y string

	cmd := &cobra.Command{
		Use:   "matrix <project-id>",
		Short: "Cross-reference two dimensions (documents, characters, locations, dates, threads)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			grid, err := s.CrossRef.Matrix(cmd.Context(), args[0], models.Dimension(x), models.Dimension(y))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, grid)
		},
	}

	cmd.Flags().StringVar(&x, "x", string(models.DimDocuments), "Column dimension")
	cmd.Flags().StringVar(&y, "y", string(models.DimCharacters), "Row dimension")
	return cmd
}

func newConflictsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts <project-id>",
		Short: "List characters placed in two locations on the same date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			conflicts, err := s.CrossRef.Conflicts(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, conflicts)
		},
	}
}
