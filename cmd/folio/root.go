// ABOUTME: Root Cobra command and global flags for folio CLI.
// ABOUTME: Loads config, builds the logger, API client, and post store before each command.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/2389-research/folio/internal/blogapi"
	"github.com/2389-research/folio/internal/config"
	"github.com/2389-research/folio/internal/logging"
	"github.com/2389-research/folio/internal/store"
)

var globalConfig *config.Config
var globalLogger zerolog.Logger
var globalClient *blogapi.Client
var globalStore *store.Store

// Flags
var (
	flagAPIURL  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Read, react to, and publish blog posts from the terminal",
	Long: `
███████╗ ██████╗ ██╗     ██╗ ██████╗
██╔════╝██╔═══██╗██║     ██║██╔═══██╗
█████╗  ██║   ██║██║     ██║██║   ██║
██╔══╝  ██║   ██║██║     ██║██║   ██║
██║     ╚██████╔╝███████╗██║╚██████╔╝
╚═╝      ╚═════╝ ╚══════╝╚═╝ ╚═════╝

Browse posts, filter by tag, like and comment, and publish
markdown drafts to a blog API. Also runs as an MCP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		globalConfig = cfg

		level := cfg.LogLevel()
		if flagVerbose {
			level = "debug"
		}
		logger, err := logging.New(os.Stderr, level)
		if err != nil {
			return err
		}
		globalLogger = logger

		apiURL := cfg.APIURL()
		if strings.TrimSpace(flagAPIURL) != "" {
			apiURL = flagAPIURL
		}
		globalClient = blogapi.NewClient(apiURL,
			blogapi.WithTimeout(cfg.Timeout()),
			blogapi.WithLogger(logger),
		)

		// Commands report store failures themselves; the store only logs
		// when asked for diagnostics or when serving MCP over stdio.
		var opts []store.Option
		if flagVerbose || cmd.Name() == "mcp" {
			opts = append(opts, store.WithLogger(logger))
		}
		globalStore = store.New(globalClient, opts...)

		logger.Debug().Str("api_url", globalClient.BaseURL()).Str("user_id", cfg.UserID()).Msg("folio initialized")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Blog API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log API requests and store actions to stderr")
}
