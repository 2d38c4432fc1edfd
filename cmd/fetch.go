package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var fetchFlags pipelineFlags

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch CPI data and export it without analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd, &fetchFlags)
		if err != nil {
			return err
		}
		p := &pipeline{cfg: cfg, logger: logger, out: os.Stdout}
		_, err = p.runFetch(cmd.Context())
		return err
	},
}

func init() {
	fetchFlags.register(fetchCmd, false)
	rootCmd.AddCommand(fetchCmd)
}
