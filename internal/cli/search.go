package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/lastresults"
	"github.com/aidanlsb/sift/internal/model"
	"github.com/aidanlsb/sift/internal/ui"
)

var searchIDs bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entities",
	Long: `Searches entities with the sift query language. Arguments are joined
with spaces into one query.

  word, "a phrase"      full text
  tag:x  bag:x  title:x  modifier:x  modified:2024*  type:x  text:x
  id:bag:title          one entity
  <name>:value          any field; a trailing * matches a prefix
  near:lat,long,meters  within a radius of geo.lat/geo.long fields
  _limit:N              return at most N matches, most recent first
  AND  OR  NOT  ( )     adjacent terms are ANDed

Examples:
  sift search monkey
  sift search 'tag:apple (bag:fnd OR bag:cdent) NOT modifier:bot'
  sift search 'near:51.5,-0.12,2000 tag:cafe' --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := strings.Join(args, " ")

		st, err := openStore(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer st.Close()

		searcher, err := newSearcher(st)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		start := time.Now()
		res, err := searcher.Search(cmd.Context(), q)
		if err != nil {
			return handleClassified(err)
		}
		items, err := res.Collect()
		if err != nil {
			return handleClassified(err)
		}
		elapsed := time.Since(start)

		if err := lastresults.Write(stateDir(), lastresults.New(q, items)); err != nil {
			logger.Warn("could not save results for numbered references", zap.Error(err))
		}

		if isJSONOutput() {
			if items == nil {
				items = []model.ResultItem{}
			}
			outputSuccess(map[string]interface{}{
				"query":   q,
				"results": items,
			}, &Meta{Count: len(items), QueryTimeMs: elapsed.Milliseconds()})
			return nil
		}

		if searchIDs {
			for _, item := range items {
				fmt.Printf("%s/%s\n", item.Bag, item.Title)
			}
			return nil
		}

		if len(items) == 0 {
			fmt.Printf("No matches for: %s\n", q)
			return nil
		}
		fmt.Printf("%s %s\n\n", ui.Bold.Render(q), ui.Hint(ui.Count(len(items), "match", "matches")))
		fmt.Print(ui.RenderResults(ui.NewDisplayContext(), items))
		fmt.Println(ui.Hint("\nsift get <n> shows a match by number"))
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchIDs, "ids", false, "Print bag/title lines only, for piping")
	rootCmd.AddCommand(searchCmd)
}
