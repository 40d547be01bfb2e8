package cli

import (
	"github.com/spf13/cobra"
)

// NewEnrichCmd creates the enrich command
func NewEnrichCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch titles and descriptions for links that have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			stats, err := a.Enrich(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum links to process (default enrich.batch_size)")

	return cmd
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show note and link counts for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			status, err := a.Status(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "owner id")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
