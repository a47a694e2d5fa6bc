package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskdesk/pkg/commands"
	"taskdesk/pkg/config"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/storage"
	"taskdesk/pkg/ui"
	"taskdesk/pkg/utils"
)

// Args represents the global command line flags
type Args struct {
	ConfigPath string
	DataDir    string
	Verbose    bool
}

// app is what every command runs against, set up before the command runs
type app struct {
	args    Args
	config  config.Config
	styles  config.Styles
	session *commands.Session
}

// NewRootCommand builds the command tree. Without a subcommand it starts the TUI.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "taskdesk",
		Short:         "Personal task manager",
		Long:          "Manage tasks, categories, priorities and reminders from a terminal UI or the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			utils.CloseLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ui.Run(a.session, a.config, a.styles)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.args.ConfigPath, "config", "", "Path to configuration file")
	flags.StringVar(&a.args.DataDir, "data-dir", "", "Directory holding the data files (overrides config)")
	flags.BoolVarP(&a.args.Verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newStatsCommand(a),
		newStatusCommand(a),
		newDeleteCommand(a),
		newCategoryCommand(a),
		newPriorityCommand(a),
		newRemindCommand(a),
		newPurgeCommand(a),
		newImportCommand(a),
		newExportCommand(a),
	)
	return root
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		if r, ok := repository.AsRejection(err); ok && r.Title != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Title, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// setup loads config and data, reconciling task statuses
func (a *app) setup() error {
	utils.InitLogger(a.args.Verbose, "")

	cfg, styles, err := config.Load(a.args.ConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if a.args.DataDir != "" {
		cfg.DataDir = a.args.DataDir
	}

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("error opening data directory: %w", err)
	}

	a.config = cfg
	a.styles = styles
	a.session = commands.NewSession(store, repository.New())
	return nil
}

func (a *app) notify() {
	commands.NotifyDueReminders(os.Stderr, a.session.Repo)
}

func newAddCommand(a *app) *cobra.Command {
	var opts commands.AddOptions
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task (+Category and @Priority tags in the title are recognized)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Title = args[0]
			return commands.HandleAddTask(a.session, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Category name")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority name (default: Default)")
	cmd.Flags().StringVarP(&opts.Deadline, "deadline", "d", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Status (default: Open)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Description")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var opts commands.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.notify()
			return commands.HandleListTasks(a.session, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Search, "search", "", "Title contains (case-insensitive)")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Only this category")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Only this priority")
	cmd.Flags().BoolVar(&opts.DueSoon, "due-soon", false, "Only unfinished tasks due within a week")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "Sort by title, deadline, status, priority or category")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "Sort descending")
	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.notify()
			return commands.HandleStats(a.session)
		},
	}
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleSetStatus(a.session, args[0], args[1])
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task and its reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleDeleteTask(a.session, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newPurgeCommand(a *app) *cobra.Command {
	var opts commands.PurgeOptions
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every matching task (Default-priority tasks are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.HandlePurge(a.session, opts, yes)
		},
	}
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Only this category")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Only this priority")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Only this status")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import tasks from a dated checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleImportCommand(a.session, args[0], category)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category for items without a +Category tag")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var exportType string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export tasks to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleExportCommand(a.session, args[0], exportType)
		},
	}
	cmd.Flags().StringVarP(&exportType, "type", "t", "json", "Export file type (json, yaml, txt, ics, sqlite)")
	return cmd
}
