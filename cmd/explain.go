package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/tributary-sql/tributary/helpers/graph"
)

var openImage bool

var explainCmd = &cobra.Command{
	Use:   "explain <table>",
	Short: "Print the dataflow graph a table scan lowers into.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		plan, env, denv, err := planScan(ctx, args[0])
		if err != nil {
			return err
		}
		unit, err := plan.Materialize(ctx, env, denv)
		if err != nil {
			return fmt.Errorf("couldn't materialize plan: %w", err)
		}

		g, err := graph.Show(unit.Visualize())
		if err != nil {
			return fmt.Errorf("couldn't render graph: %w", err)
		}

		if !openImage {
			fmt.Println(g.String())
			return nil
		}

		file, err := os.CreateTemp(os.TempDir(), "tributary-explain-*.png")
		if err != nil {
			return fmt.Errorf("couldn't create temporary file: %w", err)
		}
		render := exec.Command("dot", "-Tpng")
		render.Stdin = strings.NewReader(g.String())
		render.Stdout = file
		render.Stderr = os.Stderr
		if err := render.Run(); err != nil {
			return fmt.Errorf("couldn't render graph image: %w", err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("couldn't close temporary file: %w", err)
		}
		if err := open.Start(file.Name()); err != nil {
			return fmt.Errorf("couldn't open graph image: %w", err)
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().BoolVar(&openImage, "open", false, "render the graph with graphviz and open it")
	rootCmd.AddCommand(explainCmd)
}
