package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/publish"
)

func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("report", false, "Only report what would be done")
	cmd.Flags().Bool("dryrun", false, "Fetch and build but do not write anything")
	cmd.Flags().Bool("force", false, "Update everything already in the store, ignoring timestamps")
	cmd.Flags().Bool("rebuild", false, "Update everything listed upstream, ignoring timestamps")
	cmd.Flags().String("title", "", "Process a single page or source")
}

func syncOptions(cmd *cobra.Command) publish.Options {
	report, _ := cmd.Flags().GetBool("report")
	dryrun, _ := cmd.Flags().GetBool("dryrun")
	force, _ := cmd.Flags().GetBool("force")
	rebuild, _ := cmd.Flags().GetBool("rebuild")
	title, _ := cmd.Flags().GetString("title")
	return publish.Options{Report: report, DryRun: dryrun, Force: force, Rebuild: rebuild, Title: title}
}

func authorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Sync author pages from the wiki",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, func(ctx context.Context, a *app, opts publish.Options) (*domain.RunReport, error) {
				return a.publisher.Authors(ctx, opts)
			})
		},
	}
	addSyncFlags(cmd)
	return cmd
}

func articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Sync article pages from the wiki, with their primary sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, func(ctx context.Context, a *app, opts publish.Options) (*domain.RunReport, error) {
				return a.publisher.Articles(ctx, opts)
			})
		},
	}
	addSyncFlags(cmd)
	return cmd
}

func sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Sync primary-source records from the PSMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, func(ctx context.Context, a *app, opts publish.Options) (*domain.RunReport, error) {
				return a.publisher.Sources(ctx, opts)
			})
		},
	}
	addSyncFlags(cmd)
	return cmd
}

func runSync(
	cmd *cobra.Command,
	run func(context.Context, *app, publish.Options) (*domain.RunReport, error),
) error {
	ctx := cmd.Context()
	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	report, err := run(ctx, a, syncOptions(cmd))
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func printReport(r *domain.RunReport) {
	fmt.Printf("%s: considered %d  created %d  updated %d  deleted %d  unpublishable %d  failed %d  (%s)\n",
		r.DocType, r.Considered, r.Created, r.Updated, r.Deleted,
		r.Unpublishable, r.Failed, r.Elapsed().Round(time.Millisecond))
	if r.DryRun {
		fmt.Println("dry run: nothing was written")
	}
	for _, warning := range r.Warnings {
		fmt.Printf("WARNING: %s\n", warning)
	}
	for _, failure := range r.Failures {
		fmt.Printf("FAILED %s at %s: %s\n", failure.Key, failure.Stage, failure.Err)
	}
	for _, key := range r.UnpublishableKeys {
		fmt.Printf("unpublishable: %s\n", key)
	}
}
