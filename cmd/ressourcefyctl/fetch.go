package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ressourcefy/internal/config"
	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/infra/upstream"
	"ressourcefy/internal/observability/logging"
)

// fetchOutput is what fetch prints.
type fetchOutput struct {
	Resource  string          `json:"resource"`
	Origin    upstream.Origin `json:"origin"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Data      any             `json:"data"`
}

func newFetchCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:       "fetch hello|users|articles|documents",
		Short:     "Fetch one resource from the content API",
		Long:      `Fetch one resource and print it as JSON together with its data origin (remote, partial or fallback).`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"hello", "users", "articles", "documents"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := upstream.New(upstream.ConfigFrom(cfg.Upstream), logging.NewTextLogger())
			out, err := fetchResource(cmd.Context(), client, args[0], category)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only keep articles or documents of this category")
	return cmd
}

func fetchResource(ctx context.Context, client *upstream.Client, resource, category string) (fetchOutput, error) {
	var c entity.ResourceCategory
	if category != "" {
		if resource != "articles" && resource != "documents" {
			return fetchOutput{}, fmt.Errorf("--category only applies to articles and documents")
		}
		var err error
		if c, err = entity.ParseResourceCategory(category); err != nil {
			return fetchOutput{}, err
		}
	}

	out := fetchOutput{Resource: resource}
	switch resource {
	case "hello":
		f := client.FetchHello(ctx)
		out.Origin, out.FetchedAt, out.Data = f.Origin, f.FetchedAt, f.Value
	case "users":
		f := client.FetchUsers(ctx)
		out.Origin, out.FetchedAt, out.Data = f.Origin, f.FetchedAt, f.Value
	case "articles":
		f := client.FetchArticles(ctx)
		out.Origin, out.FetchedAt, out.Data = f.Origin, f.FetchedAt, entity.FilterArticles(f.Value, c)
	case "documents":
		f := client.FetchDocuments(ctx)
		out.Origin, out.FetchedAt, out.Data = f.Origin, f.FetchedAt, entity.FilterDocuments(f.Value, c)
	default:
		return fetchOutput{}, fmt.Errorf("unknown resource %q", resource)
	}
	return out, nil
}
