package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"inflation-report/config"
	"inflation-report/utils"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "inflation-report",
	Short: "IMF consumer price inflation report: Turkey vs. the rest of the world",
	Long: `Fetches annual CPI inflation (IMF DataMapper, PCPIPCH) for every configured
country, compares the focus country with the others, runs a t-test and a
chi-squared test, and renders the chart set.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug | info | warn | error")
}

// Execute runs the root command and exits 1 on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// pipelineFlags are shared by report and fetch
type pipelineFlags struct {
	mode     string
	out      string
	format   string
	show     bool
	csv      string
	xlsx     string
	dbDriver string
	dbURL    string
}

func (f *pipelineFlags) register(cmd *cobra.Command, withCharts bool) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "fetch mode: per-country | batch")
	cmd.Flags().StringVar(&f.out, "out", "", "output directory")
	cmd.Flags().StringVar(&f.csv, "csv", "", "write observations to this CSV file")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write observations and report to this xlsx workbook")
	cmd.Flags().StringVar(&f.dbDriver, "db-driver", "", "database driver: postgres | sqlite3")
	cmd.Flags().StringVar(&f.dbURL, "db-url", "", "database connection string (postgres URL or sqlite file)")
	if withCharts {
		cmd.Flags().StringVar(&f.format, "format", "", "chart format: png | svg | pdf")
		cmd.Flags().BoolVar(&f.show, "show", false, "open the charts in a browser window")
	}
}

// loadConfig layers the command line on top of config.Load
func loadConfig(cmd *cobra.Command, f *pipelineFlags) (*config.Config, *utils.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if f != nil {
		if flags.Changed("mode") {
			cfg.FetchMode = f.mode
		}
		if flags.Changed("out") {
			cfg.OutputDir = f.out
		}
		if flags.Changed("format") {
			cfg.ChartFormat = f.format
		}
		if flags.Changed("show") {
			cfg.ShowCharts = f.show
		}
		if flags.Changed("csv") {
			cfg.CSVFilePath = f.csv
		}
		if flags.Changed("xlsx") {
			cfg.ExcelFilePath = f.xlsx
		}
		if flags.Changed("db-driver") {
			cfg.DatabaseDriver = f.dbDriver
		}
		if flags.Changed("db-url") {
			cfg.DatabaseURL = f.dbURL
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, utils.NewLogger(cfg.LogLevel), nil
}
