package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare the document store against the wiki and PSMS",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	status, err := a.publisher.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("wiki articles:   %d\n", status.WikiPublished)
	fmt.Printf("wiki authors:    %d\n", status.WikiAuthors)
	fmt.Printf("psms sources:    %d\n", status.PSMSSources)
	fmt.Println()
	fmt.Printf("stored articles: %d/%d %s\n",
		status.StoredArticles, status.WikiPublished,
		percent(status.StoredArticles, status.WikiPublished))
	fmt.Printf("stored authors:  %d/%d %s\n",
		status.StoredAuthors, status.WikiAuthors,
		percent(status.StoredAuthors, status.WikiAuthors))
	fmt.Printf("stored sources:  %d/%d %s\n",
		status.StoredSources, int64(status.PSMSSources),
		percent(status.StoredSources, status.PSMSSources))
	return nil
}

func percent[T int | int64](stored int64, total T) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(stored)/float64(total)*100)
}
