package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/motorepair/admin/internal/services"
)

// catalog flag names
const (
	flagName        = "name"
	flagModels      = "models"
	flagBrand       = "brand"
	flagPrice       = "price"
	flagDescription = "description"
	flagActive      = "active"
)

func init() {
	catalogCmd.AddCommand(brandsCmd)
	catalogCmd.AddCommand(modelsCmd)
	catalogCmd.AddCommand(servicesCmd)

	brandsCmd.AddCommand(listBrandsCmd)
	brandsCmd.AddCommand(createBrandCmd)
	brandsCmd.AddCommand(deleteBrandCmd)
	createBrandCmd.Flags().String(flagName, "", "Brand name")
	createBrandCmd.Flags().String(flagModels, "", "Comma separated model names")
	_ = createBrandCmd.MarkFlagRequired(flagName)
	deleteBrandCmd.Flags().StringP(flagID, "i", "", "Brand ID")
	_ = deleteBrandCmd.MarkFlagRequired(flagID)

	modelsCmd.AddCommand(listModelsCmd)
	modelsCmd.AddCommand(createModelCmd)
	modelsCmd.AddCommand(moveModelCmd)
	listModelsCmd.Flags().StringP(flagBrand, "b", "", "Only list models of this brand")
	createModelCmd.Flags().StringP(flagBrand, "b", "", "Brand ID")
	createModelCmd.Flags().String(flagName, "", "Model name")
	_ = createModelCmd.MarkFlagRequired(flagBrand)
	_ = createModelCmd.MarkFlagRequired(flagName)
	moveModelCmd.Flags().StringP(flagID, "i", "", "Model ID")
	moveModelCmd.Flags().StringP(flagBrand, "b", "", "Target brand ID")
	_ = moveModelCmd.MarkFlagRequired(flagID)
	_ = moveModelCmd.MarkFlagRequired(flagBrand)

	servicesCmd.AddCommand(listServicesCmd)
	servicesCmd.AddCommand(createServiceCmd)
	servicesCmd.AddCommand(deleteServiceCmd)
	listServicesCmd.Flags().Bool(flagActive, false, "Only list active services")
	createServiceCmd.Flags().String(flagName, "", "Service name")
	createServiceCmd.Flags().String(flagDescription, "", "Service description")
	createServiceCmd.Flags().Float64(flagPrice, 0, "Service price")
	_ = createServiceCmd.MarkFlagRequired(flagName)
	_ = createServiceCmd.MarkFlagRequired(flagPrice)
	deleteServiceCmd.Flags().StringP(flagID, "i", "", "Service ID")
	_ = deleteServiceCmd.MarkFlagRequired(flagID)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage brands, models and services",
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "Manage motorcycle brands",
}

var listBrandsCmd = &cobra.Command{
	Use:   "list",
	Short: "List brands",
	RunE: func(cmd *cobra.Command, _ []string) error {
		brands, err := shop.Brands.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, brands)
	},
}

var createBrandCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a brand with its models",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString(flagName)
		modelList, _ := cmd.Flags().GetString(flagModels)

		req := services.CreateBrandRequest{Name: name}
		if modelList != "" {
			for _, model := range strings.Split(modelList, ",") {
				req.ModelNames = append(req.ModelNames, strings.TrimSpace(model))
			}
		}
		brand, err := shop.Brands.Create(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd, brand)
	},
}

var deleteBrandCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a brand and its models",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		if err := shop.Brands.Delete(cmd.Context(), id); err != nil {
			return err
		}
		return printJSON(cmd, map[string]string{"deleted": id})
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage motorcycle models",
}

var listModelsCmd = &cobra.Command{
	Use:   "list",
	Short: "List models",
	RunE: func(cmd *cobra.Command, _ []string) error {
		brandID, _ := cmd.Flags().GetString(flagBrand)
		if brandID != "" {
			list, err := shop.Models.ListByBrand(cmd.Context(), brandID)
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		}
		list, err := shop.Models.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, list)
	},
}

var createModelCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a model under a brand",
	RunE: func(cmd *cobra.Command, _ []string) error {
		brandID, _ := cmd.Flags().GetString(flagBrand)
		name, _ := cmd.Flags().GetString(flagName)
		model, err := shop.Models.Create(cmd.Context(), services.CreateMotorcycleModelRequest{BrandID: brandID, Name: name})
		if err != nil {
			return err
		}
		return printJSON(cmd, model)
	},
}

var moveModelCmd = &cobra.Command{
	Use:   "move",
	Short: "Move a model to another brand",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		brandID, _ := cmd.Flags().GetString(flagBrand)
		model, err := shop.Models.Update(cmd.Context(), id, services.UpdateMotorcycleModelRequest{BrandID: &brandID})
		if err != nil {
			return err
		}
		return printJSON(cmd, model)
	},
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage the service catalog",
}

var listServicesCmd = &cobra.Command{
	Use:   "list",
	Short: "List services",
	RunE: func(cmd *cobra.Command, _ []string) error {
		activeOnly, _ := cmd.Flags().GetBool(flagActive)
		list, err := shop.Catalog.List(cmd.Context(), activeOnly)
		if err != nil {
			return err
		}
		return printJSON(cmd, list)
	},
}

var createServiceCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a service to the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString(flagName)
		description, _ := cmd.Flags().GetString(flagDescription)
		price, _ := cmd.Flags().GetFloat64(flagPrice)
		service, err := shop.Catalog.Create(cmd.Context(), services.CreateServiceRequest{
			Name:        name,
			Description: description,
			Price:       price,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, service)
	},
}

var deleteServiceCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a service no repair job uses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString(flagID)
		if err := shop.Catalog.Delete(cmd.Context(), id); err != nil {
			return err
		}
		return printJSON(cmd, map[string]string{"deleted": id})
	},
}

// GetCatalogCmd returns the catalog command
func GetCatalogCmd() *cobra.Command {
	return catalogCmd
}
