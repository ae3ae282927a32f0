package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdfqa/internal/config"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [document-id]",
	Short: "List catalog documents or the curated questions of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			for _, d := range catalog.Documents() {
				fmt.Fprintf(out, "%-24s %s (%d questions)\n", d.ID, d.Title, len(d.Questions))
			}
			return nil
		}

		questions, err := catalog.Questions(config.DocumentID(args[0]))
		if err != nil {
			return err
		}
		for i, q := range questions {
			fmt.Fprintf(out, "%2d. %s\n", i+1, q)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}
