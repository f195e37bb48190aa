package commands

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show revenue, new clients and completed jobs against last month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dashboard, err := shop.Statistics.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, dashboard)
	},
}

// GetStatsCmd returns the stats command
func GetStatsCmd() *cobra.Command {
	return statsCmd
}
