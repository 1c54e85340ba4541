package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shubharthaksangharsha/apsara2.5/registry"
	"github.com/shubharthaksangharsha/apsara2.5/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect and run the builtin tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the builtin tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.New(logger)
		if err := tools.RegisterAll(reg); err != nil {
			return err
		}
		for _, t := range reg.Declarations() {
			fmt.Printf("%-22s %s\n", t.Name, t.Description)
		}
		return nil
	},
}

var toolsRunCmd = &cobra.Command{
	Use:   "run <name> [args-json]",
	Short: "Run a tool locally and print its result",
	Long: `Runs a tool with the given JSON arguments and prints the result, e.g.

  apsara tools run calculator '{"expression": "2+2"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.New(logger)
		if err := tools.RegisterAll(reg); err != nil {
			return err
		}

		toolArgs := map[string]any{}
		if len(args) == 2 {
			if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
				return fmt.Errorf("args: %w", err)
			}
		}

		result := reg.Execute(cmd.Context(), args[0], toolArgs)
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsRunCmd)
}
