package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent sync runs from the report archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if a.archive == nil {
				return fmt.Errorf("no report archive configured (reports.dsn)")
			}
			limit, _ := cmd.Flags().GetInt("limit")
			reports, err := a.archive.Recent(ctx, limit)
			if err != nil {
				return err
			}
			for _, r := range reports {
				dryrun := ""
				if r.DryRun {
					dryrun = "  (dry run)"
				}
				fmt.Printf("%s %-8s considered %-4d created %-4d updated %-4d deleted %-4d unpublishable %-4d failed %-4d%s\n",
					r.Started.Format(time.RFC3339), r.DocType,
					r.Considered, r.Created, r.Updated, r.Deleted,
					r.Unpublishable, r.Failed, dryrun)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Number of runs to show")
	return cmd
}
