package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/motorepair/admin/config"
	"github.com/motorepair/admin/internal/app"
	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/db/models"
)

// flag names shared by several commands
const (
	flagID    = "id"
	flagPage  = "page"
	flagLimit = "limit"
)

// dateLayout is the day format accepted by date flags
const dateLayout = "2006-01-02"

var (
	// shop is the wired application. Tests set it before executing commands.
	shop *app.App
	// ownsShop is true when shop was opened by PersistentPreRunE and must be closed
	ownsShop bool
)

func init() {
	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetStatsCmd())
	RootCmd.AddCommand(GetCatalogCmd())
	RootCmd.AddCommand(GetCacheCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "shop",
	Short: "Repair shop admin CLI",
	Long: `shop manages repair jobs, the service catalog and the monthly dashboard
of a motorcycle repair shop. Configuration is read from the environment and an
optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if shop != nil {
			return nil
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		shop, err = app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		ownsShop = true
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if !ownsShop || shop == nil {
			return nil
		}
		err := shop.Close()
		shop, ownsShop = nil, false
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// FormatError renders err for the terminal, prefixed with its kind
func FormatError(err error) string {
	return fmt.Sprintf("%s: %s", apperrors.KindOf(err), err.Error())
}

// printJSON pretty prints v to the command output
func printJSON(cmd *cobra.Command, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return err
}

// addPageFlags adds the --page and --limit flags to cmd
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int(flagPage, 1, "Page number, starting at 1")
	cmd.Flags().Int(flagLimit, models.DefaultLimit, "Number of items per page")
}

// getPageOptions reads the --page and --limit flags
func getPageOptions(cmd *cobra.Command) *models.ListOptions {
	page, _ := cmd.Flags().GetInt(flagPage)
	limit, _ := cmd.Flags().GetInt(flagLimit)
	return models.NewPageOptions(page, limit)
}

// parseDate accepts RFC 3339 timestamps or plain days. A plain day given as an
// end bound covers the whole day.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date %q, expected %s or RFC 3339", value, dateLayout)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
