package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// docsCmd writes Markdown documentation for every command to ./docs
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate Markdown documentation for norg's commands",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		if err := os.MkdirAll("./docs", 0755); err != nil {
			log.Fatalf("failed to create the docs directory: %v", err)
		}
		if err := doc.GenMarkdownTree(RootCmd, "./docs"); err != nil {
			log.Fatalf("failed to generate docs: %v", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)
}
