package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"encyc-sync/pkg/reconcile"
)

var docTypes = []string{"articles", "authors", "sources"}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list <doctype>",
		Short:     "List stored document keys and modification times",
		Args:      cobra.ExactArgs(1),
		ValidArgs: docTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			items, err := listingFor(ctx, a, args[0])
			if err != nil {
				return err
			}
			for n, item := range items {
				fmt.Printf("%d/%d| %s  %s\n", n+1, len(items), item.LastMod.Format("2006-01-02 15:04:05"), item.Key)
			}
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <doctype> <id>",
		Short: "Print one stored document as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			doc, err := documentFor(ctx, a, args[0], args[1])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <doctype> <id>",
		Short: "Delete one stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			switch args[0] {
			case "articles":
				err = a.store.DeleteArticle(ctx, args[1])
			case "authors":
				err = a.store.DeleteAuthor(ctx, args[1])
			case "sources":
				err = a.store.DeleteSource(ctx, args[1])
			default:
				return fmt.Errorf("%q is not a recognized doc type (articles, authors, sources)", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Printf("deleted %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create document store indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)
			return a.store.Setup(ctx)
		},
	}
}

func dropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop the whole document store database",
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed, _ := cmd.Flags().GetBool("confirm")
			if !confirmed {
				return fmt.Errorf("this deletes every stored document; re-run with --confirm")
			}
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)
			return a.store.Drop(ctx)
		},
	}
	cmd.Flags().Bool("confirm", false, "Actually drop the database")
	return cmd
}

func listingFor(ctx context.Context, a *app, docType string) ([]reconcile.Item, error) {
	switch docType {
	case "articles":
		return a.store.Articles(ctx)
	case "authors":
		return a.store.Authors(ctx)
	case "sources":
		return a.store.Sources(ctx)
	}
	return nil, fmt.Errorf("%q is not a recognized doc type (articles, authors, sources)", docType)
}

func documentFor(ctx context.Context, a *app, docType, id string) (interface{}, error) {
	switch docType {
	case "articles":
		return a.store.GetArticle(ctx, id)
	case "authors":
		return a.store.GetAuthor(ctx, id)
	case "sources":
		return a.store.GetSource(ctx, id)
	}
	return nil, fmt.Errorf("%q is not a recognized doc type (articles, authors, sources)", docType)
}
