package cli

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/model"
	"github.com/aidanlsb/sift/internal/parser"
	"github.com/aidanlsb/sift/internal/slugs"
	"github.com/aidanlsb/sift/internal/store"
	"github.com/aidanlsb/sift/internal/ui"
)

var (
	importBag      string
	importModifier string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import a directory of files as entities",
	Long: `Imports every .md, .markdown, .txt and .json file under a directory.

Text files become one entity each. The bag defaults to the slug of the
directory name (or --bag) and the title to the file name without extension;
front matter may override both. A .json file holds one entity object as
printed by 'sift get --json'.

Each file is stored as a new revision, so importing twice keeps history.

Examples:
  sift import ./notes
  sift import ./recipes --bag cookbook --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// importResult tracks the outcome for one file.
type importResult struct {
	File     string `json:"file"`
	ID       string `json:"id,omitempty"`
	Action   string `json:"action"` // "stored", "would_store", "error"
	Revision int    `json:"revision,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return handleError(ErrFileNotFound, err, "")
	}
	if !info.IsDir() {
		return handleErrorMsg(ErrInvalidInput, dir+" is not a directory", "Use 'sift put -f' for a single file")
	}

	files, err := importableFiles(dir)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	bag := importBag
	if bag == "" {
		bag = slugs.BagName(dir)
	}

	var st *store.Store
	if !importDryRun {
		st, err = openStore(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer st.Close()
	}

	progress := ui.NewProgress(os.Stderr, "Importing", len(files))
	results := make([]importResult, 0, len(files))
	var warnings []Warning
	stored := 0
	for _, path := range files {
		rel, _ := filepath.Rel(dir, path)
		result := importResult{File: rel}

		e, err := loadImportFile(path, bag)
		if err == nil && importDryRun {
			result.ID = e.Bag + "/" + e.Title
			result.Action = "would_store"
		} else if err == nil {
			e, err = st.Put(cmd.Context(), e)
			if err == nil {
				result.ID = e.Bag + "/" + e.Title
				result.Action = "stored"
				result.Revision = e.Revision
				stored++
			}
		}
		if err != nil {
			result.Action = "error"
			result.Reason = err.Error()
			warnings = append(warnings, Warning{Code: WarnImportFailed, Message: err.Error(), Ref: rel})
			logger.Debug("import failed", zap.String("file", path), zap.Error(err))
		}
		results = append(results, result)
		progress.Increment()
	}
	progress.Done()

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"bag":     bag,
			"dry_run": importDryRun,
			"results": results,
		}, warnings, &Meta{Count: stored})
		return nil
	}

	for _, r := range results {
		switch r.Action {
		case "error":
			fmt.Println(ui.Error(fmt.Sprintf("%s: %s", r.File, r.Reason)))
		case "would_store":
			fmt.Printf("  %s %s\n", r.ID, ui.Hint("← "+r.File))
		}
	}
	if importDryRun {
		fmt.Printf("Dry run: %d files would be imported into %s\n", len(results)-len(warnings), bag)
		return nil
	}
	fmt.Println(successf("Imported %d of %d files", stored, len(files)))
	return nil
}

// importableFiles lists the files under dir that import understands, in
// lexical order. Hidden directories are skipped.
func importableFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown", ".txt", ".json":
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func loadImportFile(path, bag string) (*model.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var e model.Entity
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("invalid entity JSON: %w", err)
		}
		if e.Bag == "" {
			e.Bag = bag
		}
		if e.Title == "" {
			e.Title = slugs.TitleFromFilename(path)
		}
		if e.Modifier == "" {
			e.Modifier = importModifier
		}
		// Revision numbers are assigned by the store.
		e.Revision = 0
		return &e, nil
	}

	defaults := &model.Entity{
		Bag:      bag,
		Title:    slugs.TitleFromFilename(path),
		Modifier: importModifier,
	}
	if isMarkdownPath(path) {
		defaults.Type = "text/x-markdown"
	}
	return parser.ParseEntity(string(data), defaults)
}

func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func init() {
	importCmd.Flags().StringVar(&importBag, "bag", "", "Bag to import into (default: slug of the directory name)")
	importCmd.Flags().StringVar(&importModifier, "modifier", os.Getenv("USER"), "Modifier recorded on each revision")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "List what would be imported without storing anything")
	rootCmd.AddCommand(importCmd)
}
