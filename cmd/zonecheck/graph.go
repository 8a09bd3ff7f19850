package main

import (
	"fmt"

	"github.com/aretw0/zonecheck/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph COMPONENT",
	Short: "Export a component as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart of the component's locations and edges.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, _, _, err := newStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		c, err := stack.Engine.Component(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		visited, _ := cmd.Flags().GetStringSlice("visited")
		current, _ := cmd.Flags().GetString("current")
		if len(visited) > 0 || current != "" {
			overlay = &graph.Overlay{Visited: visited, Current: current}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(c, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("visited", nil, "Locations to highlight as visited")
	graphCmd.Flags().String("current", "", "Location to highlight as current")
}
