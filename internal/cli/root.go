// filepath: internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"aiopro/internal/config"
	"aiopro/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Version info
	Version   = "0.1.0"
	StartTime time.Time

	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags
	cfgFile      string
	apiKey       string
	host         string
	port         int
	logLevel     string
	jwtSecret    string
	maxPages     int
	fetchTimeout string
	auditEnabled bool
)

// RootCmd represents the base command when called without any subcommands.
// It starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:   "aiopro",
	Short: "AIO Pro Backend",
	Long:  `The HTTP backend behind the AIO Pro GPT action: crawls websites, extracts links and titles, and stores crawl reports.`,
	// PersistentPreRunE loads the configuration before any command runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	// RunE executes the main server logic.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	StartTime = time.Now()

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Define flags.
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config_path", "config.toml", "Path to the base configuration file. (Env: AIO_CONFIG_PATH)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: AIO_LOG_LEVEL)")

	// Server-specific flags
	RootCmd.Flags().StringVar(&apiKey, "api-key", "", "Master API key accepted for all authenticated endpoints. (Env: API_KEY)")
	RootCmd.Flags().StringVar(&host, "host", "", "Host for the HTTP server. (Env: AIO_HOST)")
	RootCmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: AIO_PORT)")
	RootCmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "Secret key for signing JWTs. (Env: AIO_JWT_SECRET)")
	RootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "Default page budget per crawl. (Env: AIO_MAX_PAGES)")
	RootCmd.Flags().StringVar(&fetchTimeout, "fetch-timeout", "", "Timeout per page fetch (e.g. '15s'). (Env: AIO_FETCH_TIMEOUT)")
	RootCmd.Flags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: AIO_AUDIT_ENABLED=true)")
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	// 0. Load a .env file if one is present; real env vars win.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment from .env file.")
	}

	// 1. Check environment variable for config path first
	if envPath := os.Getenv("AIO_CONFIG_PATH"); envPath != "" && cfgFile == "config.toml" {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Create empty config if not found, rely on defaults/flags
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	applyOverrides(cfg, cmd)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)

	return nil
}

func applyOverrides(c *config.Config, cmd *cobra.Command) {
	// --- 1. Environment Variables ---
	if v := os.Getenv("API_KEY"); v != "" {
		c.MasterAPIKey = v
	}
	if v := os.Getenv("AIO_API_KEY"); v != "" {
		c.MasterAPIKey = v
	}
	if v := os.Getenv("AIO_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("AIO_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	// Render-style deployments expose the listen port as PORT.
	if v := os.Getenv("PORT"); v != "" && c.Server.Port == 0 {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("AIO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AIO_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.AuditEnabled = b
		}
	}
	if v := os.Getenv("AIO_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("AIO_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("AIO_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Crawler.MaxPages = n
		}
	}
	if v := os.Getenv("AIO_FETCH_TIMEOUT"); v != "" {
		c.Crawler.FetchTimeout = v
	}

	// --- 2. CLI Flags (Take precedence) ---
	if apiKey != "" {
		c.MasterAPIKey = apiKey
	}
	if host != "" {
		c.Server.Host = host
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	// Check if flag was explicitly set
	if cmd.Flags().Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if jwtSecret != "" {
		c.JWTSecret = jwtSecret
	}
	if maxPages != 0 {
		c.Crawler.MaxPages = maxPages
	}
	if fetchTimeout != "" {
		c.Crawler.FetchTimeout = fetchTimeout
	}

	// --- 3. Defaults ---
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "aiopro.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
