package main

import "github.com/spf13/cobra"

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Build and export per-cell feature tables",
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
