package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/buildinfo"
	"github.com/aidanlsb/sift/internal/search"
	"github.com/aidanlsb/sift/internal/store"
	"github.com/aidanlsb/sift/internal/ui"
)

type versionInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit,omitempty"`
	Built         string `json:"built,omitempty"`
	GoVersion     string `json:"go_version"`
	SchemaVersion int    `json:"schema_version"`
	Driver        string `json:"driver,omitempty"`
	Dialect       string `json:"dialect,omitempty"`
	Database      string `json:"database,omitempty"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the sift build and the database it is configured for",
	Long: `Shows the sift build, the schema version it creates and the database
driver and search dialect selected by the config file.

A config file that cannot be loaded does not stop the command; the
database lines are left out instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		var warnings []Warning
		loaded, path, err := loadGlobalConfigWithPath()
		if err != nil {
			warnings = append(warnings, Warning{Code: ErrConfigInvalid, Message: err.Error()})
		} else {
			cfg, resolvedConfigPath = loaded, path
			addDatabaseInfo(&info)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(info, warnings, nil)
			return nil
		}

		line := "sift " + info.Version
		if info.Commit != "" {
			line += ui.Hint(" (" + info.Commit + ")")
		}
		fmt.Println(line)
		if info.Built != "" {
			fmt.Printf("built:   %s\n", info.Built)
		}
		fmt.Printf("go:      %s\n", info.GoVersion)
		fmt.Printf("schema:  %d\n", info.SchemaVersion)
		if info.Driver != "" {
			fmt.Printf("driver:  %s (dialect %s)\n", info.Driver, info.Dialect)
			fmt.Printf("db:      %s\n", info.Database)
		}
		for _, w := range warnings {
			fmt.Println(ui.Warningf("%s", w.Message))
		}
		return nil
	},
}

// currentVersionInfo describes the running binary. Module build info wins;
// values stamped through buildinfo fill the gaps for plain go build output.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:       "devel",
		GoVersion:     runtime.Version(),
		SchemaVersion: store.SchemaVersion,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.Built = s.Value
			}
		}
	}

	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = buildinfo.Version
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.Built == "" {
		info.Built = buildinfo.Date
	}
	return info
}

// addDatabaseInfo reports the configured database without connecting to it.
func addDatabaseInfo(info *versionInfo) {
	db := databaseConfig()
	info.Driver = db.DriverName()
	info.Database = displayDSN(db)
	if d, err := search.DialectFor(info.Driver); err == nil {
		info.Dialect = d.Name()
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
