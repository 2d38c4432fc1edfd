package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var reportFlags pipelineFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch CPI data, run the comparisons and render the charts",
	Long: `Fetches PCPIPCH for every configured country, prints the summary with the
t-test and chi-squared results and runs any configured exports. The five
charts are always written to disk, one file each under --out (default
"output"), in the --format image type. With --show the charts open in a browser
window and the command waits until it is closed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd, &reportFlags)
		if err != nil {
			return err
		}
		logger.Info("CPI report: %s vs. %d countries (%s mode)", cfg.FocusCountry, len(cfg.Countries), cfg.FetchMode)

		p := &pipeline{cfg: cfg, logger: logger, out: os.Stdout}
		_, err = p.runReport(cmd.Context())
		return err
	},
}

func init() {
	reportFlags.register(reportCmd, true)
	rootCmd.AddCommand(reportCmd)
}
