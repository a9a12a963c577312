// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/config"
	"github.com/aidanlsb/sift/internal/logging"
	"github.com/aidanlsb/sift/internal/search"
	"github.com/aidanlsb/sift/internal/store"
	"github.com/aidanlsb/sift/internal/ui"
)

var (
	// Global flags
	configPath string
	dbFlag     string
	verbose    bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "sift - a versioned entity store with a search language",
	Long: `sift stores titled entities in bags, keeps every revision, and finds
them again with a small search language:

  sift search 'tag:apple (bag:public OR bag:shared) NOT modifier:bot'
  sift search 'near:51.5,-0.12,5000 _limit:5'

Entities carry tags, named fields and a full-text body. The store is SQLite
by default; MySQL is supported through [database] in config.toml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "completion", "help", "version":
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return abort(ErrConfigInvalid, err, "Fix the file or pass --config")
		}
		if cfg.UI.Accent != "" {
			ui.ConfigureTheme(cfg.UI.Accent)
		}
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		logger, err = logging.New(cfg.Log, verbose)
		if err != nil {
			return abort(ErrConfigInvalid, err, "")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// errReported stops a command whose error was already written as JSON.
var errReported = errors.New("error reported")

// abort is handleError for hooks that must stop the command in every
// output mode.
func abort(code string, err error, suggestion string) error {
	if isJSONOutput() {
		outputError(code, err.Error(), nil, suggestion)
		return errReported
	}
	return err
}

// Execute runs the CLI. Errors are printed to stderr unless they were
// already reported as JSON.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Database DSN (overrides [database] dsn)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug output, including compiled SQL, to stderr")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// loadGlobalConfigWithPath loads the config file, falling back to defaults
// when it does not exist.
func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)
	if _, err := os.Stat(resolvedPath); os.IsNotExist(err) {
		return config.Default(), resolvedPath, nil
	}
	loaded, err := config.LoadFrom(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	return loaded, resolvedPath, nil
}

// databaseConfig returns the database settings with the DSN resolved and
// --db applied.
func databaseConfig() config.Database {
	db := getConfig().Database
	if strings.TrimSpace(dbFlag) != "" {
		db.DSN = dbFlag
		return db
	}
	db.DSN = db.ResolveDSN(resolvedConfigPath)
	return db
}

// openStore opens the configured database. Callers close it.
func openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, databaseConfig(), logger)
}

// newSearcher builds a searcher over st from the [search] settings.
func newSearcher(st *store.Store) (*search.Searcher, error) {
	dialect, err := search.DialectFor(st.Driver())
	if err != nil {
		return nil, err
	}
	s := getConfig().Search
	compiler := search.NewCompiler(dialect, search.Options{
		DefaultLimit: s.DefaultLimit,
		NearLimit:    s.NearLimit,
		StrictLimit:  s.StrictLimit,
	})
	return search.NewSearcher(st, compiler, logger), nil
}

// stateDir is where per-user state such as the last search results is
// kept: next to the config file.
func stateDir() string {
	return filepath.Dir(config.ResolveConfigPath(resolvedConfigPath))
}

// parseRef splits a "bag/title" argument. The title may itself contain '/'.
func parseRef(ref string) (bag, title string, err error) {
	bag, title, ok := strings.Cut(ref, "/")
	if !ok || bag == "" || title == "" {
		return "", "", fmt.Errorf("invalid entity reference %q: expected bag/title", ref)
	}
	return bag, title, nil
}
