package cli

import (
	"context"
	"fmt"

	"cuisine-classifier/internal/client"
	"cuisine-classifier/internal/core/cuisine"
	"cuisine-classifier/internal/core/submission"

	"github.com/spf13/cobra"
)

func newQueryCmd(root *rootOptions) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "query <recipes.json>",
		Short: "Send recipes to a running classifier and print id,cuisine rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("server") {
				cfg.Client.ServerURL = server
			}

			recipes, err := cuisine.LoadRecipes(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			c := client.New(cfg.Client.ServerURL, cfg.Client.Timeout)
			preds, err := c.Predict(ctx, recipes)
			if err != nil {
				return fmt.Errorf("query %s: %w", cfg.Client.ServerURL, err)
			}
			return submission.Write(cmd.OutOrStdout(), preds)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "classifier base URL (default from config)")
	return cmd
}
