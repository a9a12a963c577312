package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history <bag/title>",
	Short: "List the revisions of an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bag, title, err := parseRef(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "Usage: sift history <bag/title>")
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer st.Close()

		revisions, err := st.Revisions(cmd.Context(), bag, title)
		if err != nil {
			return handleClassified(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"bag":       bag,
				"title":     title,
				"revisions": revisions,
			}, &Meta{Count: len(revisions)})
			return nil
		}

		fmt.Printf("%s %s\n", ui.Accent.Render(bag+"/"+title), ui.Hint(ui.Count(len(revisions), "revision", "revisions")))
		for _, rev := range revisions {
			fmt.Printf("  %d\n", rev)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
