package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/model"
	"github.com/aidanlsb/sift/internal/search"
	"github.com/aidanlsb/sift/internal/store"
	"github.com/aidanlsb/sift/internal/ui"
)

var findCmd = &cobra.Command{
	Use:   "find <field=value>...",
	Short: "Find entities whose fields equal the given values",
	Long: `Finds entities matching every field=value pair exactly and prints them in
full. Field names are those of the search language: bag, title, tag,
modifier, modified, type, text, id, or any stored field.

The lookup runs as an indexed search. When the index cannot answer it (for
instance a value containing a double quote), every entity is scanned instead.

Examples:
  sift find tag=apple bag=fnd_public
  sift find 'title=Getting "Started"'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		constraints, err := parseKeyValues(args)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Usage: sift find field=value ...")
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer st.Close()

		searcher, err := newSearcher(st)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		var warnings []Warning
		entities, err := searcher.IndexQuery(cmd.Context(), st, constraints)
		if errors.Is(err, search.ErrIndexRefused) {
			logger.Debug("index refused lookup, scanning", zap.Error(err))
			warnings = append(warnings, Warning{Code: WarnIndexRefused, Message: "index lookup refused; scanned all entities"})
			entities, err = scanMatching(cmd.Context(), st, constraints)
		}
		if err != nil {
			return handleClassified(err)
		}

		if isJSONOutput() {
			if entities == nil {
				entities = []*model.Entity{}
			}
			outputSuccessWithWarnings(entities, warnings, &Meta{Count: len(entities)})
			return nil
		}

		if len(entities) == 0 {
			fmt.Println("No matching entities")
			return nil
		}
		items := make([]model.ResultItem, len(entities))
		for i, e := range entities {
			items[i] = model.ResultItem{Bag: e.Bag, Title: e.Title}
		}
		fmt.Print(ui.RenderResults(ui.NewDisplayContext(), items))
		return nil
	},
}

// scanMatching loads every entity and keeps those matching constraints.
func scanMatching(ctx context.Context, st *store.Store, constraints map[string]string) ([]*model.Entity, error) {
	all, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*model.Entity
	for _, item := range all {
		e, err := st.Get(ctx, item.Bag, item.Title)
		if err != nil {
			return nil, err
		}
		if search.MatchEntity(e, constraints) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Modified > matched[j].Modified
	})
	return matched, nil
}

func init() {
	rootCmd.AddCommand(findCmd)
}
