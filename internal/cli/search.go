package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/linkstash/internal/searcher"
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	var (
		ownerID  int64
		kind     string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search notes and links",
		Example: `  # Typos still match
  linkstash search --owner 1 reactt

  # Links only, second page
  linkstash search --owner 1 --kind links --page 2 golang`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			if pageSize == 0 {
				pageSize = a.Config.Search.DefaultPageSize
			}
			req := searcher.SearchRequest{
				OwnerID:  ownerID,
				Query:    strings.Join(args, " "),
				Page:     page,
				PageSize: pageSize,
			}

			switch kind {
			case "notes":
				result, err := a.Searcher.SearchNotes(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			case "links":
				result, err := a.Searcher.SearchLinks(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			case "all":
				result, err := a.Searcher.UnifiedSearch(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			default:
				return fmt.Errorf("unknown kind %q (want notes, links or all)", kind)
			}
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "owner id")
	cmd.Flags().StringVar(&kind, "kind", "all", "what to search: notes, links or all")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page (default from config)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
