package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"founder-hub/app/catalog"
	"founder-hub/app/config"
	"founder-hub/app/filter"
	"founder-hub/app/logger"
	"founder-hub/app/models"
	"founder-hub/app/selection"
	"founder-hub/app/store"

	"github.com/spf13/cobra"
)

type openFunc func(path, profile string) (store.Backend, func() error, error)

// app is the state shared by all subcommands of one invocation.
type app struct {
	out      io.Writer
	open     openFunc
	registry *catalog.Registry
	log      *logger.Logger

	dbPath  string
	profile string
	verbose bool

	backend store.Backend
	closer  func() error
}

func newRootCmd(out io.Writer, open openFunc) *cobra.Command {
	a := &app{out: out, open: open, registry: catalog.Default(), log: logger.Nop()}

	defaults := &config.Config{}
	if cfg, err := config.Process(); err == nil {
		defaults = cfg
	}

	root := &cobra.Command{
		Use:           "founderctl",
		Short:         "Browse founder resources and track your progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.verbose {
				lg, err := logger.New("development")
				if err != nil {
					return err
				}
				a.log = lg
			}
			backend, closer, err := a.open(a.dbPath, a.profile)
			if err != nil {
				return err
			}
			a.backend, a.closer = backend, closer
			a.log.Debug("local state opened", "db", a.dbPath, "profile", a.profile)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			a.log.Sync()
			if a.closer == nil {
				return nil
			}
			return a.closer()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.dbPath, "db", orDefault(defaults.Local.DBPath, "founderhub.db"), "path of the local state database")
	root.PersistentFlags().StringVar(&a.profile, "profile", orDefault(defaults.Local.Profile, "default"), "state namespace inside the database")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		a.catalogsCmd(),
		a.listCmd(),
		a.toggleCmd(),
		a.enrollCmd(),
		a.progressCmd(),
	)
	return root
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (a *app) catalog(slug string) (*models.Catalog, error) {
	cat, ok := a.registry.Get(slug)
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q (see 'founderctl catalogs')", slug)
	}
	return cat, nil
}

func (a *app) snapshot(cmd *cobra.Command, cat *models.Catalog) selection.Snapshot {
	snap, errs := selection.LoadAll(cmd.Context(), a.backend, cat)
	for _, err := range errs {
		a.log.Warn("ignoring unreadable local state", "error", err)
	}
	return snap
}

func (a *app) catalogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalogs",
		Short: "List the available catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tITEMS\tFREE")
			for _, cat := range a.registry.List() {
				s := catalog.Compute(cat.Items)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", cat.Slug, cat.Title, s.Total, s.Free)
			}
			return tw.Flush()
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var (
		search   string
		category string
		tab      string
		facets   map[string]string
	)
	cmd := &cobra.Command{
		Use:   "list <catalog>",
		Short: "List catalog items, optionally filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(args[0])
			if err != nil {
				return err
			}
			for name := range facets {
				if _, ok := cat.Dimension(name); !ok {
					return fmt.Errorf("catalog %s has no %q filter", cat.Slug, name)
				}
			}

			q := filter.Query{Search: search, Category: category, Facets: facets, Tab: tab}
			snap := a.snapshot(cmd, cat)
			items := filter.Items(cat, q, snap.Has)
			if len(items) == 0 {
				fmt.Fprintln(a.out, "Nothing matches. Try a different search or adjust the filters.")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATE")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, item.Title, cat.CategoryLabel(item.Category), marks(cat, snap, item.ID))
			}
			fmt.Fprintf(tw, "\n%d of %d items\n", len(items), len(cat.Items))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text search")
	cmd.Flags().StringVarP(&category, "category", "c", models.All, "category id")
	cmd.Flags().StringVarP(&tab, "tab", "t", models.All, "tab id")
	cmd.Flags().StringToStringVar(&facets, "facet", nil, "dimension filter, e.g. --facet level=beginner")
	return cmd
}

// marks lists the trackers an item belongs to.
func marks(cat *models.Catalog, snap selection.Snapshot, id string) string {
	var on []string
	for _, def := range cat.Trackers {
		if snap.Has(def.Name, id) {
			on = append(on, def.Name)
		}
	}
	return strings.Join(on, ",")
}

func (a *app) apply(cmd *cobra.Command, cat *models.Catalog, def models.TrackerDef, id string) error {
	if _, ok := cat.ByID(id); !ok {
		return fmt.Errorf("catalog %s has no item %q", cat.Slug, id)
	}
	res, err := selection.NewTracker(def).Apply(cmd.Context(), a.backend, id)
	if err != nil {
		return err
	}
	a.log.Debug("selection updated", "catalog", cat.Slug, "tracker", def.Name, "item", id, "changed", res.Changed)
	fmt.Fprintln(a.out, res.Notice.Message)
	return nil
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <catalog> <tracker> <id>",
		Short: "Toggle an item in a tracker such as saved or completed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(args[0])
			if err != nil {
				return err
			}
			def, ok := cat.Tracker(args[1])
			if !ok {
				return fmt.Errorf("catalog %s has no %q tracker", cat.Slug, args[1])
			}
			return a.apply(cmd, cat, def, args[2])
		},
	}
}

func (a *app) enrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <catalog> <id>",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(args[0])
			if err != nil {
				return err
			}
			def, ok := cat.Tracker(models.TrackerEnrolled)
			if !ok || def.Mode != models.ModeEnroll {
				return fmt.Errorf("catalog %s does not offer enrollment", cat.Slug)
			}
			return a.apply(cmd, cat, def, args[1])
		},
	}
}

var errNotChecklist = errors.New("not a checklist")

func (a *app) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <catalog>",
		Short: "Show checklist progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(args[0])
			if err != nil {
				return err
			}
			if !cat.IsChecklist() {
				return fmt.Errorf("%s: %w", cat.Slug, errNotChecklist)
			}
			snap := a.snapshot(cmd, cat)
			p := selection.Checklist(cat, snap)
			fmt.Fprintf(a.out, "%s: %d/%d complete (%d%%)\n", cat.Title, p.Completed, p.Total, p.Percent)
			for _, item := range cat.Items {
				box := "[ ]"
				if snap.Has(models.TrackerCompleted, item.ID) {
					box = "[x]"
				}
				fmt.Fprintf(a.out, "%s %s %s\n", box, item.ID, item.Title)
			}
			return nil
		},
	}
}
