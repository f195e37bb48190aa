package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/db/models"
	"github.com/motorepair/admin/internal/services"
)

// jobs flag names
const (
	flagStatus     = "status"
	flagMotorcycle = "motorcycle"
	flagServices   = "services"
	flagNotes      = "notes"
	flagEstimated  = "estimated"
	flagFrom       = "from"
	flagTo         = "to"
	flagSearch     = "search"
	flagOrder      = "order"
)

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(historyJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(createJobCmd)
	jobsCmd.AddCommand(updateJobCmd)
	jobsCmd.AddCommand(statusJobCmd)
	jobsCmd.AddCommand(cancelJobCmd)
	jobsCmd.AddCommand(deleteJobCmd)
	jobsCmd.AddCommand(workflowJobCmd)

	listJobsCmd.Flags().StringP(flagStatus, "s", "", "Only list jobs in this status (default: every active status)")
	listJobsCmd.Flags().StringP(flagMotorcycle, "m", "", "Only list jobs of this motorcycle")
	addPageFlags(listJobsCmd)

	historyJobsCmd.Flags().String(flagFrom, "", "Earliest completion date (YYYY-MM-DD or RFC 3339)")
	historyJobsCmd.Flags().String(flagTo, "", "Latest completion date, inclusive (YYYY-MM-DD or RFC 3339)")
	historyJobsCmd.Flags().String(flagSearch, "", "Match customer name or plate")
	historyJobsCmd.Flags().String(flagOrder, string(models.SortDesc), "Sort by completion date, ASC or DESC")
	addPageFlags(historyJobsCmd)

	createJobCmd.Flags().StringP(flagMotorcycle, "m", "", "Motorcycle ID")
	createJobCmd.Flags().String(flagServices, "", "Comma separated service IDs")
	createJobCmd.Flags().String(flagNotes, "", "Notes for the mechanic")
	createJobCmd.Flags().String(flagEstimated, "", "Estimated completion (default: computed from the services)")
	_ = createJobCmd.MarkFlagRequired(flagMotorcycle)
	_ = createJobCmd.MarkFlagRequired(flagServices)

	updateJobCmd.Flags().String(flagNotes, "", "New notes")
	updateJobCmd.Flags().String(flagEstimated, "", "New estimated completion")

	statusJobCmd.Flags().StringP(flagStatus, "s", "", "Target status")
	_ = statusJobCmd.MarkFlagRequired(flagStatus)

	for _, cmd := range []*cobra.Command{getJobCmd, updateJobCmd, statusJobCmd, cancelJobCmd, deleteJobCmd, workflowJobCmd} {
		cmd.Flags().StringP(flagID, "i", "", "Repair job ID")
		_ = cmd.MarkFlagRequired(flagID)
	}
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage repair jobs",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List active repair jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, _ := cmd.Flags().GetString(flagStatus)
		motorcycleID, _ := cmd.Flags().GetString(flagMotorcycle)

		filter := models.RepairJobFilter{MotorcycleID: motorcycleID}
		if status != "" {
			parsed, err := models.ParseRepairJobStatus(status)
			if err != nil {
				return apperrors.BadRequest("%s", err.Error())
			}
			filter.Status = &parsed
		}

		page, err := shop.RepairJobs.GetAll(cmd.Context(), filter, getPageOptions(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, page)
	},
}

var historyJobsCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed and cancelled repair jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		from, _ := cmd.Flags().GetString(flagFrom)
		to, _ := cmd.Flags().GetString(flagTo)
		search, _ := cmd.Flags().GetString(flagSearch)
		order, _ := cmd.Flags().GetString(flagOrder)

		filter := models.RepairJobHistoryFilter{
			Search: search,
			Order:  models.SortOrder(strings.ToUpper(strings.TrimSpace(order))),
		}
		var err error
		if filter.From, err = parseDate(from, false); err != nil {
			return err
		}
		if filter.To, err = parseDate(to, true); err != nil {
			return err
		}

		page, err := shop.RepairJobs.GetHistory(cmd.Context(), filter, getPageOptions(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, page)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a repair job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		job, err := shop.RepairJobs.GetByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, job)
	},
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a repair job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		motorcycleID, _ := cmd.Flags().GetString(flagMotorcycle)
		serviceList, _ := cmd.Flags().GetString(flagServices)
		notes, _ := cmd.Flags().GetString(flagNotes)
		estimated, _ := cmd.Flags().GetString(flagEstimated)

		req := services.CreateRepairJobRequest{
			MotorcycleID: motorcycleID,
			ServiceIDs:   strings.Split(serviceList, ","),
		}
		if cmd.Flags().Changed(flagNotes) {
			req.Notes = &notes
		}
		due, err := parseDate(estimated, false)
		if err != nil {
			return err
		}
		req.EstimatedCompletion = due

		job, err := shop.RepairJobs.Create(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd, job)
	},
}

var updateJobCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the notes or estimated completion of a repair job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		notes, _ := cmd.Flags().GetString(flagNotes)
		estimated, _ := cmd.Flags().GetString(flagEstimated)

		var req services.UpdateRepairJobRequest
		if cmd.Flags().Changed(flagNotes) {
			req.Notes = &notes
		}
		due, err := parseDate(estimated, false)
		if err != nil {
			return err
		}
		req.EstimatedCompletion = due

		job, err := shop.RepairJobs.Update(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		return printJSON(cmd, job)
	},
}

var statusJobCmd = &cobra.Command{
	Use:   "status",
	Short: "Move a repair job to another status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		status, _ := cmd.Flags().GetString(flagStatus)

		target, err := models.ParseRepairJobStatus(status)
		if err != nil {
			return apperrors.BadRequest("%s", err.Error())
		}
		job, err := shop.RepairJobs.UpdateStatus(cmd.Context(), id, target)
		if err != nil {
			return err
		}
		return printJSON(cmd, job)
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a repair job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		job, err := shop.RepairJobs.Cancel(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, job)
	},
}

var deleteJobCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a pending or cancelled repair job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		if err := shop.RepairJobs.Delete(cmd.Context(), id); err != nil {
			return err
		}
		return printJSON(cmd, map[string]string{"deleted": id})
	},
}

var workflowJobCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Show what can happen next to a repair job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		info, err := shop.RepairJobs.GetWorkflow(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
