package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/config"
	"github.com/aidanlsb/sift/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and an empty database",
	Long: `Creates config.toml (at --config, or the default location) if it does not
exist, then opens the configured database so its schema is created.

Running init again is safe: existing files and data are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault(configPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		loaded, err := config.LoadFrom(path)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix the file and run 'sift init' again")
		}
		cfg, resolvedConfigPath = loaded, path

		db := databaseConfig()
		st, err := store.Open(cmd.Context(), db, logger)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Check [database] in "+path)
		}
		defer st.Close()

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config":   path,
				"driver":   st.Driver(),
				"database": displayDSN(db),
			}, nil)
			return nil
		}

		fmt.Println(successf("Config: %s", path))
		fmt.Println(successf("Database (%s): %s", st.Driver(), displayDSN(db)))
		return nil
	},
}

// displayDSN hides the password of a mysql DSN.
func displayDSN(db config.Database) string {
	if db.DriverName() != config.DriverMySQL {
		return db.DSN
	}
	user, rest, ok := cutAt(db.DSN)
	if !ok {
		return db.DSN
	}
	if name, _, hasPass := cutColon(user); hasPass {
		return name + ":***@" + rest
	}
	return db.DSN
}

func init() {
	rootCmd.AddCommand(initCmd)
}
