package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"justdoit/internal/models"
)

// exportTask is the YAML form of a task.
type exportTask struct {
	ID        string    `yaml:"task_id"`
	Name      string    `yaml:"task_name"`
	Desc      string    `yaml:"task_desc"`
	DateAdded time.Time `yaml:"date_added"`
	Deadline  string    `yaml:"task_dl"`
	Status    string    `yaml:"status"`
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task to stdout",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q", format)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.store.LoadAll(cmd.Context())
	if err != nil {
		return err
	}

	out, err := encodeExport(list, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func encodeExport(list []models.Task, format string) ([]byte, error) {
	if format == "yaml" {
		records := make([]exportTask, 0, len(list))
		for _, t := range list {
			records = append(records, exportTask{
				ID:        t.ID.String(),
				Name:      t.Name,
				Desc:      t.Desc,
				DateAdded: t.DateAdded,
				Deadline:  t.Deadline,
				Status:    string(t.Status),
			})
		}
		return yaml.Marshal(records)
	}

	if list == nil {
		list = []models.Task{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
