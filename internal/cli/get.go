package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/lastresults"
	"github.com/aidanlsb/sift/internal/model"
	"github.com/aidanlsb/sift/internal/ui"
)

var getRaw bool

var getCmd = &cobra.Command{
	Use:   "get <bag/title | numbers>",
	Short: "Show the current revision of an entity",
	Long: `Shows the current revision of an entity. Markdown text is rendered for the
terminal unless --raw is given.

Numbers refer to the matches of the last search, as listed by 'sift search':
a single number, a list such as 1,3 or a range such as 2-4.

Examples:
  sift get recipes/Pancakes
  sift get recipes/Pancakes --json
  sift search tag:breakfast && sift get 1-3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := resolveRefs(args[0])
		if errors.Is(err, errReported) {
			return nil
		}
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer st.Close()

		entities := make([]*model.Entity, 0, len(refs))
		for _, ref := range refs {
			e, err := st.Get(cmd.Context(), ref.Bag, ref.Title)
			if err != nil {
				return handleClassified(err)
			}
			entities = append(entities, e)
		}

		if isJSONOutput() {
			if lastresults.IsNumberRef(args[0]) {
				outputSuccess(entities, &Meta{Count: len(entities)})
			} else {
				outputSuccess(entities[0], nil)
			}
			return nil
		}

		width := ui.NewDisplayContext().TermWidth
		for i, e := range entities {
			if i > 0 {
				fmt.Println()
			}
			if getRaw {
				fmt.Print(e.Text)
				continue
			}
			out, err := ui.RenderEntity(e, width)
			if err != nil {
				return handleError(ErrInternal, err, "Use --raw to print the text unrendered")
			}
			fmt.Print(out)
		}
		return nil
	},
}

// resolveRefs turns a bag/title argument, or numbers into the last search's
// matches, into entity identifiers. Errors are already reported.
func resolveRefs(arg string) ([]model.ResultItem, error) {
	if !lastresults.IsNumberRef(arg) {
		bag, title, err := parseRef(arg)
		if err != nil {
			return nil, reportErr(handleError(ErrInvalidInput, err, "Use bag/title, or a number from the last search"))
		}
		return []model.ResultItem{{Bag: bag, Title: title}}, nil
	}

	nums, err := lastresults.ParseNumbers(arg)
	if err != nil {
		return nil, reportErr(handleError(ErrInvalidInput, err, ""))
	}
	lr, err := lastresults.Read(stateDir())
	if errors.Is(err, lastresults.ErrNoLastResults) {
		return nil, reportErr(handleError(ErrNoResults, err, "Run 'sift search' first"))
	}
	if err != nil {
		return nil, reportErr(handleError(ErrFileReadError, err, ""))
	}
	items, err := lr.GetByNumbers(nums)
	if err != nil {
		return nil, reportErr(handleError(ErrInvalidInput, err, ""))
	}
	return items, nil
}

// reportErr keeps a JSON-reported error from letting the caller continue.
func reportErr(err error) error {
	if err == nil {
		return errReported
	}
	return err
}

func init() {
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "Print the text only, without rendering")
	rootCmd.AddCommand(getCmd)
}
