package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/vocab-cli/internal/definitions"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Manage the local definition glossary",
}

var glossaryAddCmd = &cobra.Command{
	Use:   "add <term> <definition>",
	Short: "Add or update a glossary definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := definitions.OpenGlossary(cfg.Definitions.DatabasePath)
		if err != nil {
			return err
		}
		defer g.Close()

		if err := g.Put(cmd.Context(), args[0], args[1], "user"); err != nil {
			return err
		}
		n, err := g.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Stored definition for %q (%d entries)\n", args[0], n)
		return nil
	},
}

var glossaryLookupCmd = &cobra.Command{
	Use:   "lookup <term>",
	Short: "Look up a term in the glossary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := definitions.OpenGlossary(cfg.Definitions.DatabasePath)
		if err != nil {
			return err
		}
		defer g.Close()

		def, err := g.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def == "" {
			def = definitions.Placeholder
		}
		fmt.Println(def)
		return nil
	},
}

func init() {
	glossaryCmd.AddCommand(glossaryAddCmd)
	glossaryCmd.AddCommand(glossaryLookupCmd)
	rootCmd.AddCommand(glossaryCmd)
}
