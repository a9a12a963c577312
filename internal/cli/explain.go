package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/ui"
)

var explainCmd = &cobra.Command{
	Use:   "explain <query>",
	Short: "Show the SQL a search compiles to",
	Long: `Parses and compiles a search without running it, and prints the query as
parsed, the SQL statement, its arguments and the row limit applied.

Example:
  sift explain 'tag:apple NOT tag:pear _limit:5'`,
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

		node, err := query.Parse(q)
		if err != nil {
			return handleClassified(err)
		}
		stmt, err := searcher.Compile(q)
		if err != nil {
			return handleClassified(err)
		}

		if isJSONOutput() {
			stmtArgs := stmt.Args
			if stmtArgs == nil {
				stmtArgs = []any{}
			}
			outputSuccess(map[string]interface{}{
				"query":   q,
				"parsed":  query.Format(node),
				"dialect": st.Driver(),
				"sql":     stmt.SQL,
				"args":    stmtArgs,
				"limit":   stmt.Limit,
			}, nil)
			return nil
		}

		t := ui.NewTable(2)
		t.AddRow(ui.Muted.Render("parsed"), query.Format(node))
		t.AddRow(ui.Muted.Render("dialect"), st.Driver())
		t.AddRow(ui.Muted.Render("args"), fmt.Sprintf("%v", stmt.Args))
		limit := "none"
		if stmt.Limit > 0 {
			limit = fmt.Sprint(stmt.Limit)
		}
		t.AddRow(ui.Muted.Render("limit"), limit)
		fmt.Print(t.String())
		fmt.Println()
		fmt.Println(stmt.SQL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
