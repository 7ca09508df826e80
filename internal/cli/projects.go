package cli

import (
	svc "inkwell/internal/domain/services/binder"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects, favorites first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			projects, err := s.Projects.ListProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, projects)
		},
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var req svc.CreateProjectRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project with one empty chapter",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			project, err := s.Projects.CreateProject(cmd.Context(), &req)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, project)
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Project title")
	cmd.Flags().StringVar(&req.Author, "author", "", "Author name")
	cmd.Flags().StringVar(&req.Synopsis, "synopsis", "", "One-paragraph synopsis")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Projects.DeleteProject(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}
}
