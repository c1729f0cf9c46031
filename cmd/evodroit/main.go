package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benbel/evolution-du-droit/internal/app"
	"github.com/benbel/evolution-du-droit/internal/config"
	"github.com/benbel/evolution-du-droit/internal/utils"
	"github.com/benbel/evolution-du-droit/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "evodroit",
	Short: "Generate browsable history data from legal code repositories",
	Long: `Evodroit converts the commit history of version-controlled legal
code repositories into normalized JSON: a repository index, per-repository
commit indexes, and compressed per-commit detail records with
article-by-article diffs.

Diffs are retrieved from local clones when present, otherwise from the
hosting API. Runs are incremental: details already on disk are skipped.`,
	Version: version.Short(),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is %s)", config.ConfigFilePath()))
	rootCmd.PersistentFlags().String("codes", config.DefaultCodesDir, "Directory holding repository clones")
	rootCmd.PersistentFlags().String("data", config.DefaultDataDir, "Output data directory")
	rootCmd.PersistentFlags().Int("recent", 0, "Generate details only for the N most recent commits (0=all)")
	rootCmd.PersistentFlags().Bool("include-unchanged", false, "Keep context lines in detail records")
	rootCmd.PersistentFlags().String("remote-owner", "", "Hosting account for repositories without a local clone")
	rootCmd.PersistentFlags().String("remote-token", "", "Hosting API token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	_ = viper.BindPFlag("codes.directory", rootCmd.PersistentFlags().Lookup("codes"))
	_ = viper.BindPFlag("data.directory", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("generate.recent_limit", rootCmd.PersistentFlags().Lookup("recent"))
	_ = viper.BindPFlag("generate.include_unchanged", rootCmd.PersistentFlags().Lookup("include-unchanged"))
	_ = viper.BindPFlag("remote.owner", rootCmd.PersistentFlags().Lookup("remote-owner"))
	_ = viper.BindPFlag("remote.token", rootCmd.PersistentFlags().Lookup("remote-token"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}
	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})

	orchestrator, err := app.New(app.Options{
		Config:   cfg,
		Logger:   logger,
		Progress: true,
	})
	if err != nil {
		return err
	}

	stats, err := orchestrator.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("\n%d repositories: %d commits seen, %d generated, %d cached, %d failed\n",
		stats.Repositories, stats.CommitsSeen, stats.Generated, stats.Skipped, stats.Failed)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
