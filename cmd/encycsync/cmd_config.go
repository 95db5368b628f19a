package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the settings commands will run with",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("wiki.api_url:       %s\n", cfg.Wiki.APIURL)
			fmt.Printf("wiki.username:      %s\n", cfg.Wiki.Username)
			fmt.Printf("psms.api_url:       %s\n", cfg.PSMS.APIURL)
			fmt.Printf("docstore.uri:       %s\n", cfg.Docstore.URI)
			fmt.Printf("docstore.database:  %s\n", cfg.Docstore.Database)
			fmt.Printf("reports.dsn set:    %t\n", cfg.Reports.DSN != "")
			fmt.Printf("publish.workers:    %d\n", cfg.Publish.Workers)
			fmt.Printf("hidden_tags:        %v\n", cfg.Publish.HiddenTags)
			fmt.Printf("hidden_categories:  %v\n", cfg.Publish.HiddenCategories)
			fmt.Printf("non_article_pages:  %v\n", cfg.Publish.NonArticlePages)
			fmt.Printf("databoxes:          %v\n", cfg.Publish.Databoxes)
			return nil
		},
	}
}
