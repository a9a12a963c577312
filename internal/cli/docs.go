package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/docs"
	"github.com/aidanlsb/sift/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guides",
	Long: `Lists the bundled guides, or renders one.

Examples:
  sift docs
  sift docs query-language`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := docTopics()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if len(args) == 0 {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
				return nil
			}
			for _, topic := range topics {
				fmt.Println(topic)
			}
			return nil
		}

		topic := strings.TrimSuffix(args[0], ".md")
		content, err := fs.ReadFile(docs.FS, path.Join("guide", topic+".md"))
		if err != nil {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown topic %q", topic),
				"Available: "+strings.Join(topics, ", "))
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"topic": topic, "content": string(content)}, nil)
			return nil
		}
		out, err := ui.RenderMarkdown(string(content), ui.NewDisplayContext().TermWidth)
		if err != nil {
			fmt.Print(string(content))
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

func docTopics() ([]string, error) {
	entries, err := fs.ReadDir(docs.FS, "guide")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".md"); ok {
			topics = append(topics, name)
		}
	}
	sort.Strings(topics)
	return topics, nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
