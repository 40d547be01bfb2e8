package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

type noteStatusOutput struct {
	NoteID string `json:"note_id"`
	Status string `json:"status"`
}

// NewSaveCmd creates the save command
func NewSaveCmd() *cobra.Command {
	var (
		ownerID int64
		urls    []string
	)

	cmd := &cobra.Command{
		Use:   "save [content]",
		Short: "Save a note with optional links",
		Example: `  linkstash save --owner 1 "hooks reading list" --url https://react.dev/learn`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			note, err := a.SaveNote(cmd.Context(), ownerID, strings.Join(args, " "), urls)
			if err != nil {
				return err
			}
			return printJSON(cmd, note)
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "owner id")
	cmd.Flags().StringArrayVar(&urls, "url", nil, "link URL to attach (repeatable)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

// NewArchiveCmd creates the archive command
func NewArchiveCmd() *cobra.Command {
	return noteStatusCmd("archive", "Archive a note so it no longer appears in search", true)
}

// NewUnarchiveCmd creates the unarchive command
func NewUnarchiveCmd() *cobra.Command {
	return noteStatusCmd("unarchive", "Restore an archived note", false)
}

func noteStatusCmd(use, short string, archived bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <note-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			if err := a.SetArchived(cmd.Context(), args[0], archived); err != nil {
				return err
			}
			status := "active"
			if archived {
				status = "archived"
			}
			return printJSON(cmd, noteStatusOutput{NoteID: args[0], Status: status})
		},
	}
}

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Permanently delete an archived note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			if err := a.DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd, noteStatusOutput{NoteID: args[0], Status: "deleted"})
		},
	}
}
