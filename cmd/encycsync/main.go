package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:     "encycsync",
		Short:   "Publish the editors' wiki and PSMS into the public document store",
		Version: version,
	}

	root.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: /etc/encyc-sync.yml, ~/.encyc-sync.yml, ./encyc-sync.yml)")

	root.AddCommand(authorsCmd())
	root.AddCommand(articlesCmd())
	root.AddCommand(sourcesCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(listCmd())
	root.AddCommand(getCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(setupCmd())
	root.AddCommand(dropCmd())
	root.AddCommand(runsCmd())
	root.AddCommand(configCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
