package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var manDir string

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man pages.",
	Long:   "Write a man page for every reclaim command into a directory.",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(manDir, 0o755); err != nil {
			return fmt.Errorf("Could not create man page directory %s: %v", manDir, err)
		}
		header := &doc.GenManHeader{
			Title:   "RECLAIM",
			Section: "1",
			Source:  "reclaim " + appVersion,
		}
		if err := doc.GenManTree(rootCmd, header, manDir); err != nil {
			return fmt.Errorf("Could not generate man pages: %v", err)
		}
		fmt.Printf("Wrote man pages to %s\n", manDir)
		return nil
	},
}

func init() {
	manCmd.Flags().StringVar(&manDir, "dir", "man", "Output directory for the generated pages.")
}
