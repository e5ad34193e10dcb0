// Command yatubectl is the admin CLI: schema migration, groups, users and the
// page cache.
package main

import (
	"context"
	"fmt"
	"os"
	"yatube/internal/bootstrap"
	"yatube/internal/config"
	userPort "yatube/internal/ports/user"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yatubectl",
		Short:         "Administer a yatube installation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newGroupCmd(), newUserCmd(), newCacheCmd())
	return root
}

// withApp loads settings, opens the app, runs fn and closes everything.
func withApp(ctx context.Context, fn func(app *bootstrap.App) error) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	return openApp(ctx, settings, fn)
}

func openApp(ctx context.Context, settings *config.Settings, fn func(app *bootstrap.App) error) error {
	app, err := bootstrap.Open(ctx, settings)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				if err := app.Migrate(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newGroupCmd() *cobra.Command {
	group := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}

	var title, slug, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				g, err := app.Groups.CreateGroup(cmd.Context(), title, slug, description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created group %s (%s)\n", g.Slug, g.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&title, "title", "", "display title")
	create.Flags().StringVar(&slug, "slug", "", "unique URL-safe identifier")
	create.Flags().StringVar(&description, "description", "", "description")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("slug")

	remove := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a group; its posts are kept without a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				if err := app.Groups.DeleteGroup(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				groups, err := app.Groups.ListGroups(cmd.Context())
				if err != nil {
					return err
				}
				for _, g := range groups {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", g.Slug, g.Title)
				}
				return nil
			})
		},
	}

	group.AddCommand(create, remove, list)
	return group
}

func newUserCmd() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var in userPort.RegisterInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				u, err := app.Users.RegisterUser(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Username, u.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&in.Username, "username", "", "login name")
	create.Flags().StringVar(&in.Password, "password", "", "password")
	create.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	create.Flags().StringVar(&in.Email, "email", "", "email address")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	user.AddCommand(create)
	return user
}

func newCacheCmd() *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}
	cache.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached page fragment (redis backend only)",
		Long: "Drop every cached page fragment from redis. The memory backend lives inside\n" +
			"the server process and expires on its own, so it cannot be cleared from here.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if settings.CacheBackend != "redis" {
				return fmt.Errorf("cache clear needs CACHE_BACKEND=redis; the %q cache lives in the server process", settings.CacheBackend)
			}
			return openApp(cmd.Context(), settings, func(app *bootstrap.App) error {
				if err := app.PageCache.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "page cache cleared")
				return nil
			})
		},
	})
	return cache
}
