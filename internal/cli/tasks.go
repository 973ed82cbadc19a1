package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"justdoit/internal/models"
	"justdoit/internal/tasks"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pending task",
		Args:  cobra.NoArgs,
		RunE:  runAdd,
	}
	cmd.Flags().StringP("name", "n", "", "Task title")
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().String("deadline", "", "Deadline as YYYY-MM-DD")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	desc, _ := cmd.Flags().GetString("description")
	deadline, _ := cmd.Flags().GetString("deadline")

	t, err := a.ctrl.Create(cmd.Context(), tasks.Draft{Name: name, Description: desc, Deadline: deadline})
	if err != nil {
		var verr *tasks.ValidationError
		if errors.As(err, &verr) {
			for _, field := range []string{models.FieldTitle, models.FieldDescription, models.FieldDeadline} {
				if msg, ok := verr.Fields[field]; ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
				}
			}
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added task %s (due %s)\n", t.ID, t.Deadline)
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().StringP("status", "s", "all", "Filter: all, pending or completed")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	board := tasks.NewBoard(a.store)
	if err := board.Reload(cmd.Context()); err != nil {
		return err
	}

	status, _ := cmd.Flags().GetString("status")
	filtered := board.Filtered(models.ParseFilter(status))
	out := cmd.OutOrStdout()

	if len(filtered) == 0 {
		fmt.Fprintln(out, "No tasks found.")
	} else {
		now := a.ctrl.Now()

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleDouble)
		t.AppendHeader(table.Row{"ID", "Task", "Description", "Deadline", "Status"})
		for i := range filtered {
			deadline := filtered[i].Deadline
			if filtered[i].IsOverdue(now) {
				deadline += " (overdue)"
			}
			t.AppendRow(table.Row{
				filtered[i].ID,
				filtered[i].Name,
				filtered[i].Desc,
				deadline,
				filtered[i].Status,
			})
		}
		t.Render()
	}

	s := board.Summary()
	fmt.Fprintf(out, "Total: %d  Pending: %d  Completed: %d\n", s.Total, s.Pending, s.Completed)
	return nil
}

func newCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [task-id...]",
		Short: "Mark pending tasks as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runComplete,
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func runComplete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	ids := toIDs(args)

	current, err := a.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	if err := tasks.CheckAdvance(current, ids); err != nil {
		return err
	}

	ok, err := confirm(cmd, &tasks.PendingAction{Kind: tasks.ActionAdvanceStatus, IDs: ids})
	if err != nil || !ok {
		return err
	}

	n, err := a.ctrl.AdvanceStatus(ctx, ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Completed %d task(s)\n", n)
	return nil
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [task-id...]",
		Short: "Delete tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDelete,
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids := toIDs(args)
	ok, err := confirm(cmd, &tasks.PendingAction{Kind: tasks.ActionDelete, IDs: ids})
	if err != nil || !ok {
		return err
	}

	n, err := a.ctrl.Delete(cmd.Context(), ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", n)
	return nil
}

func toIDs(args []string) []models.TaskID {
	ids := make([]models.TaskID, 0, len(args))
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			ids = append(ids, models.TaskID(arg))
		}
	}
	return ids
}

// confirm asks the pending action's question on stdin unless --yes is set.
func confirm(cmd *cobra.Command, a *tasks.PendingAction) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", a.Prompt())
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return false, nil
	}
}
