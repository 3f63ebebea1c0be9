// ABOUTME: Cobra command tree for the homestore CLI
// ABOUTME: Each command boots the store, runs one operation and closes it

package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/2389/homestore/internal/config"
	"github.com/2389/homestore/internal/home"
	"github.com/2389/homestore/internal/store"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	configPath string
	dbPath     string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "homestore",
		Short:         "Inspect and edit the persisted home screen layout",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/homestore/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides database.path)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))
	cmd.AddCommand(newPagesCommand(opts))
	cmd.AddCommand(newDockCommand(opts))
	cmd.AddCommand(newBookmarksCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newPruneCommand(opts))

	return cmd
}

// session is an opened, booted store for the duration of one command.
type session struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	store      *store.SQLiteStore
	svc        *home.Service
	boot       home.BootResult
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, configPath, err := loadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}

	logger := setupLogger(cfg.Logging, cmd.ErrOrStderr())
	st := store.NewSQLiteStore(store.Options{
		Path:        cfg.Database.Path,
		Driver:      cfg.Database.Driver,
		BusyTimeout: cfg.Database.BusyTimeout,
		Logger:      logger,
	})
	svc := home.NewService(st,
		home.WithDefaults(home.LayoutFromConfig(cfg.Defaults)),
		home.WithLogger(logger),
	)

	boot, err := svc.Boot(cmd.Context())
	if err != nil {
		st.Close()
		return nil, err
	}

	return &session{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		store:      st,
		svc:        svc,
		boot:       boot,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// run opens a session, calls fn and closes the session.
func (o *rootOptions) run(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := o.open(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the database and seed the default layout",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, _ []string, s *session) error {
			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen)

			green.Fprint(out, "▶ ")
			fmt.Fprintf(out, "Database: %s\n", s.store.Path())
			switch {
			case s.boot.Upgraded:
				green.Fprint(out, "▶ ")
				fmt.Fprintf(out, "Schema:   upgraded to version %d\n", store.SchemaVersion)
			default:
				green.Fprint(out, "▶ ")
				fmt.Fprintf(out, "Schema:   version %d, up to date\n", store.SchemaVersion)
			}
			if s.boot.Seeded {
				green.Fprint(out, "▶ ")
				fmt.Fprintln(out, "Defaults: seeded")
			}
			return nil
		}),
	}
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the database location and record counts",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, _ []string, s *session) error {
			ctx := cmd.Context()
			pages, err := s.store.PageCount(ctx)
			if err != nil {
				return err
			}
			dock, err := s.store.Shortcuts(ctx)
			if err != nil {
				return err
			}
			bookmarks, err := s.store.Bookmarks(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			gray := color.New(color.FgHiBlack)
			configPath := s.configPath
			if configPath == "" {
				configPath = "(built-in defaults)"
			}
			fmt.Fprintf(out, "Config:    %s\n", configPath)
			fmt.Fprintf(out, "Database:  %s ", s.store.Path())
			gray.Fprintf(out, "(%s)\n", s.cfg.Database.Driver)
			fmt.Fprintf(out, "Schema:    %d\n", store.SchemaVersion)
			fmt.Fprintf(out, "Pages:     %d\n", pages)
			fmt.Fprintf(out, "Dock:      %d\n", len(dock))
			fmt.Fprintf(out, "Bookmarks: %d\n", len(bookmarks))
			return nil
		}),
	}
}

func newPagesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List grid pages in order",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, _ []string, s *session) error {
			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan)

			id := 0
			n, err := s.store.ForEachPage(cmd.Context(), func(apps []store.AppReference) error {
				cyan.Fprintf(out, "page %d", id)
				fmt.Fprintf(out, " (%d)\n", len(apps))
				for _, app := range apps {
					fmt.Fprintf(out, "  %s\n", formatApp(app))
				}
				id++
				return nil
			})
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(out, "no pages")
			}
			return nil
		}),
	}
}

func newDockCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dock",
		Short: "Show the dock",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, _ []string, s *session) error {
			dock, err := s.store.Shortcuts(cmd.Context())
			if err != nil {
				return err
			}
			printApps(cmd.OutOrStdout(), dock, "dock is empty")
			return nil
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [ORIGIN[#ENTRY_POINT]...]",
		Short: "Replace the dock contents (no arguments empties it)",
		RunE: opts.run(func(cmd *cobra.Command, args []string, s *session) error {
			apps := make([]store.AppReference, 0, len(args))
			for _, arg := range args {
				app, err := parseApp(arg)
				if err != nil {
					return err
				}
				apps = append(apps, app)
			}
			if err := s.store.SaveShortcuts(cmd.Context(), apps); err != nil {
				return err
			}
			printApps(cmd.OutOrStdout(), apps, "dock is empty")
			return nil
		}),
	})

	return cmd
}

func newBookmarksCommand(opts *rootOptions) *cobra.Command {
	list := func(cmd *cobra.Command, _ []string, s *session) error {
		bookmarks, err := s.store.Bookmarks(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(bookmarks) == 0 {
			fmt.Fprintln(out, "no bookmarks")
			return nil
		}
		gray := color.New(color.FgHiBlack)
		for _, b := range bookmarks {
			fmt.Fprint(out, b.URL)
			if b.Name != "" {
				gray.Fprintf(out, "  %s", b.Name)
			}
			fmt.Fprintln(out)
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE:  opts.run(list),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE:  opts.run(list),
	})

	var name, icon string
	add := &cobra.Command{
		Use:   "add URL",
		Short: "Save a bookmark and place it on the grid",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, s *session) error {
			b := store.Bookmark{URL: args[0], Name: name, Icon: icon}
			if err := s.svc.InstallBookmark(cmd.Context(), b); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "bookmarked %s\n", args[0])
			return nil
		}),
	}
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&icon, "icon", "", "icon URL")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm URL",
		Short: "Delete a bookmark and its icons",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.svc.RemoveBookmark(cmd.Context(), args[0]); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		}),
	})

	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the full layout as JSON (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, s *session) error {
			l, err := s.svc.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			data, err := l.Encode()
			if err != nil {
				return err
			}

			if args[0] == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := atomic.WriteFile(args[0], bytes.NewReader(data)); err != nil {
				return fmt.Errorf("writing %s: %w", args[0], err)
			}
			s.logger.Info("exported layout", "file", args[0], "pages", len(l.Pages))
			return nil
		}),
	}
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the layout with one written by export (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, s *session) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			l, err := home.DecodeLayout(data)
			if err != nil {
				return err
			}
			if err := s.svc.Restore(cmd.Context(), l); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d pages, %d dock apps, %d bookmarks\n",
				len(l.Pages), len(l.Dock), len(l.Bookmarks))
			return nil
		}),
	}
}

func newPruneCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove icons of bookmarks that no longer exist",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, _ []string, s *session) error {
			removed, err := s.svc.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d dangling references\n", removed)
			return nil
		}),
	}
}

// parseApp reads ORIGIN or ORIGIN#ENTRY_POINT.
func parseApp(arg string) (store.AppReference, error) {
	origin, entryPoint, _ := strings.Cut(arg, "#")
	return store.NewAppReference(origin, entryPoint)
}

func formatApp(app store.AppReference) string {
	s := app.Origin
	if app.EntryPoint != "" {
		s += "#" + app.EntryPoint
	}
	if app.Bookmark {
		s += color.HiBlackString(" (bookmark)")
	}
	return s
}

func printApps(out io.Writer, apps []store.AppReference, empty string) {
	if len(apps) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, app := range apps {
		fmt.Fprintln(out, formatApp(app))
	}
}
