package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the play journal",
	Long:  "Delete every journaled session, answer and LLM request. Cached phrase sets are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete the journal without --yes")
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.EventRepo().Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset journal: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Journal deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
