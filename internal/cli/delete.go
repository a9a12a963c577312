package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <bag/title>",
	Short: "Delete an entity and all of its revisions",
	Long: `Deletes an entity together with its revision history, tags and fields.

Asks for confirmation unless --force is used. Without a terminal (and with
--json) --force is required.

Examples:
  sift delete recipes/Pancakes
  sift delete recipes/Pancakes --force --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bag, title, err := parseRef(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "Usage: sift delete <bag/title>")
		}

		if !deleteForce {
			switch confirm(fmt.Sprintf("Delete %s/%s and its history?", bag, title)) {
			case confirmUnavailable:
				return handleErrorMsg(ErrInvalidInput, "refusing to delete without confirmation", "Pass --force")
			case confirmDeclined:
				fmt.Println("Cancelled")
				return nil
			}
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer st.Close()

		if err := st.Delete(cmd.Context(), bag, title); err != nil {
			return handleClassified(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"deleted": bag + "/" + title}, nil)
			return nil
		}
		fmt.Println(successf("Deleted %s/%s", bag, title))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
	rootCmd.AddCommand(deleteCmd)
}
