package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/studyshelf/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "studyshelf",
		Short:   "A shared shelf of study resources",
		Long:    "Study Shelf: post learning resources, tag them, like, favourite, and comment.",
		Version: build.Version + " (" + build.Commit + ")",
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
