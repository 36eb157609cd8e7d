package main

import (
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	_ "ojtool/internal/codeforces"
	"ojtool/internal/util/slogx"
	"ojtool/internal/version"
)

var rootCmd = &cobra.Command{
	Version: version.Version,
	Use:     "ojtool",
	Short:   "Talks to online competitive-programming judges from the command line",
	Long: `ojtool is a scraping client for online competitive-programming judges
that expose no API. It logs in, fetches task statements and examples,
submits solutions and watches their verdicts.
`,
	SilenceUsage: true,
}

var (
	optionsPath string
	secretsPath string
	logLevel    string
)

func setupLog() *slog.Logger {
	level, ok := slogx.Level(logLevel)
	if !ok {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(
		colorable.NewColorableStderr(),
		&slog.HandlerOptions{Level: level},
	))
}

func main() {
	p := rootCmd.PersistentFlags()
	p.StringVarP(&optionsPath, "options", "o", "", "options file (default: per-user config dir)")
	p.StringVarP(&secretsPath, "secrets", "s", "", "secrets file (default: per-user config dir)")
	p.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(contestsCmd)
	rootCmd.AddCommand(tasksCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
