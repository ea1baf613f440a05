package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of every configured database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repository, err := buildRepository(ctx)
		if err != nil {
			return err
		}

		databases := repository.Databases()
		names := make([]string, 0, len(databases))
		for name := range databases {
			names = append(names, name)
		}
		sort.Strings(names)

		out := tablewriter.NewWriter(os.Stdout)
		out.SetHeader([]string{"database", "table"})
		out.SetAutoFormatHeaders(false)
		for _, name := range names {
			tables, err := databases[name].ListTables(ctx)
			if err != nil {
				return fmt.Errorf("couldn't list tables of database '%s': %w", name, err)
			}
			for _, table := range tables {
				out.Append([]string{name, table})
			}
		}
		out.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
