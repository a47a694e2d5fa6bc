package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"taskdesk/pkg/commands"
)

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a category with its tasks and their reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleDeleteCategory(a.session, args[0], yes)
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Add a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return commands.HandleAddCategory(a.session, args[0])
			},
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return commands.HandleRenameCategory(a.session, args[0], args[1])
			},
		},
		del,
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return commands.HandleListCategories(a.session)
			},
		},
	)
	return cmd
}

func newPriorityCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Manage priorities",
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a priority with its tasks and their reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleDeletePriority(a.session, args[0], yes)
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Add a priority",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return commands.HandleAddPriority(a.session, args[0])
			},
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a priority (Default cannot be renamed)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return commands.HandleRenamePriority(a.session, args[0], args[1])
			},
		},
		del,
		&cobra.Command{
			Use:   "list",
			Short: "List priorities",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return commands.HandleListPriorities(a.session)
			},
		},
	)
	return cmd
}

func newRemindCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage reminders",
	}

	var opts commands.ReminderOptions
	add := &cobra.Command{
		Use:   "add TASK-ID NAME",
		Short: "Add a reminder to a task with a deadline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.TaskRef, opts.Name = args[0], args[1]
			return commands.HandleAddReminder(a.session, opts)
		},
	}
	add.Flags().StringVarP(&opts.Type, "type", "t", "", "day, week, month or custom")
	add.Flags().StringVar(&opts.Date, "date", "", "Reminder date for custom reminders (YYYY-MM-DD)")

	var taskRef string
	list := &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.HandleListReminders(a.session, taskRef)
		},
	}
	list.Flags().StringVar(&taskRef, "task", "", "Only reminders of this task")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "rename NUMBER NAME",
			Short: "Rename a reminder",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := reminderNumber(args[0])
				if err != nil {
					return err
				}
				return commands.HandleRenameReminder(a.session, n, args[1])
			},
		},
		&cobra.Command{
			Use:   "delete NUMBER",
			Short: "Delete a reminder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := reminderNumber(args[0])
				if err != nil {
					return err
				}
				return commands.HandleDeleteReminder(a.session, n)
			},
		},
		list,
	)
	return cmd
}

func reminderNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid reminder number %q: use the number shown by remind list", arg)
	}
	return n, nil
}
