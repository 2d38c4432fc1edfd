package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inflation-report/utils"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the configured country codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		set := utils.NewCodeSet(cfg.Countries...)
		out := cmd.OutOrStdout()
		codes := set.List()
		for i := 0; i < len(codes); i += 12 {
			end := i + 12
			if end > len(codes) {
				end = len(codes)
			}
			fmt.Fprintln(out, strings.Join(codes[i:end], " "))
		}
		fmt.Fprintf(out, "Toplam: %d ülke (odak: %s)\n", set.Count(), cfg.FocusCountry)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}
