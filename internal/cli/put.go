package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/model"
	"github.com/aidanlsb/sift/internal/parser"
	"github.com/aidanlsb/sift/internal/store"
)

var (
	putText     string
	putTags     []string
	putFields   []string
	putModifier string
	putType     string
	putFile     string
)

var putCmd = &cobra.Command{
	Use:   "put <bag/title>",
	Short: "Store a new revision of an entity",
	Long: `Stores a new revision of an entity. Earlier revisions are kept.

The entity is built from flags, or read from a file with -f (use - for stdin).
A file may start with YAML front matter declaring title, bag, tags, modifier,
type and fields; flags and the bag/title argument fill in what it leaves out.

Examples:
  sift put recipes/Pancakes --text "Flour, eggs, milk" --tag breakfast
  sift put places/Cafe --field geo.lat=51.5 --field geo.long=-0.12
  sift put recipes/Pancakes -f pancakes.md
  cat note.md | sift put -f -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := &model.Entity{Modifier: putModifier, Type: putType}
		if len(args) == 1 {
			bag, title, err := parseRef(args[0])
			if err != nil {
				return handleError(ErrInvalidInput, err, "Usage: sift put <bag/title>")
			}
			defaults.Bag, defaults.Title = bag, title
		}

		e, err := buildEntity(defaults)
		if err != nil {
			var fileErr *os.PathError
			if errors.As(err, &fileErr) {
				return handleError(ErrFileNotFound, err, "")
			}
			return handleError(ErrEntityInvalid, err, "Pass bag/title or declare both in front matter")
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer st.Close()

		stored, err := st.Put(cmd.Context(), e)
		if err != nil {
			var tooLarge *store.ValueTooLargeError
			if errors.As(err, &tooLarge) {
				return handleClassified(err)
			}
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(stored, nil)
			return nil
		}
		fmt.Println(successf("Stored %s/%s (revision %d)", stored.Bag, stored.Title, stored.Revision))
		return nil
	},
}

// buildEntity assembles the entity to store from -f input and flags.
func buildEntity(defaults *model.Entity) (*model.Entity, error) {
	var e *model.Entity
	if putFile != "" {
		content, err := readInput(putFile)
		if err != nil {
			return nil, err
		}
		e, err = parser.ParseEntity(content, defaults)
		if err != nil {
			return nil, err
		}
		if e.Type == "" && isMarkdownPath(putFile) {
			e.Type = "text/x-markdown"
		}
	} else {
		if defaults.Bag == "" || defaults.Title == "" {
			return nil, fmt.Errorf("bag/title is required without -f")
		}
		e = defaults
	}

	if putText != "" {
		e.Text = putText
	}
	e.Tags = append(e.Tags, putTags...)
	fields, err := parseKeyValues(putFields)
	if err != nil {
		return nil, err
	}
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e, nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	putCmd.Flags().StringVar(&putText, "text", "", "Entity text")
	putCmd.Flags().StringArrayVar(&putTags, "tag", nil, "Tag (repeatable)")
	putCmd.Flags().StringArrayVar(&putFields, "field", nil, "Field as name=value (repeatable)")
	putCmd.Flags().StringVar(&putModifier, "modifier", os.Getenv("USER"), "Who is making the change")
	putCmd.Flags().StringVar(&putType, "type", "", "Content type of the text, e.g. text/x-markdown")
	putCmd.Flags().StringVarP(&putFile, "file", "f", "", "Read the entity from a file (- for stdin)")
	rootCmd.AddCommand(putCmd)
}
