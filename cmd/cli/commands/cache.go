package commands

import (
	"github.com/spf13/cobra"

	"github.com/motorepair/admin/internal/cache"
)

func init() {
	cacheCmd.AddCommand(flushCacheCmd)
	cacheCmd.AddCommand(invalidateJobsCacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the read cache",
}

var flushCacheCmd = &cobra.Command{
	Use:   "flush",
	Short: "Remove every cached entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd, map[string]bool{"flushed": shop.Cache.Flush(cmd.Context())})
	},
}

var invalidateJobsCacheCmd = &cobra.Command{
	Use:   "invalidate-jobs",
	Short: "Drop cached job listings and the dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		shop.Cache.Invalidate(cmd.Context(), cache.RepairJobInvalidation())
		return printJSON(cmd, map[string]bool{"invalidated": true})
	},
}

// GetCacheCmd returns the cache command
func GetCacheCmd() *cobra.Command {
	return cacheCmd
}
