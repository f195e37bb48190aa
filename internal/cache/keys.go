package cache

import (
	"fmt"

	"github.com/motorepair/admin/internal/db/models"
)

// Key namespaces
const (
	BrandNamespace      = "brands"
	ModelNamespace      = "models"
	ServiceNamespace    = "services"
	RepairJobNamespace  = "repair-jobs"
	StatisticsNamespace = "statistics"
)

// EntityKey returns "<type>:<id>"
func EntityKey(namespace, id string) string {
	return namespace + ":" + id
}

// CollectionKey returns "<type>:all"
func CollectionKey(namespace string) string {
	return namespace + ":all"
}

// RelationKey returns "<type>:by-<parent>:<parentID>"
func RelationKey(namespace, parent, parentID string) string {
	return fmt.Sprintf("%s:by-%s:%s", namespace, parent, parentID)
}

// NamespacePattern matches every key of namespace
func NamespacePattern(namespace string) string {
	return namespace + ":*"
}

// BrandKey is the key of one brand
func BrandKey(id string) string { return EntityKey(BrandNamespace, id) }

// BrandsAllKey holds every brand
func BrandsAllKey() string { return CollectionKey(BrandNamespace) }

// ModelKey is the key of one motorcycle model
func ModelKey(id string) string { return EntityKey(ModelNamespace, id) }

// ModelsAllKey holds every motorcycle model
func ModelsAllKey() string { return CollectionKey(ModelNamespace) }

// ModelsByBrandKey is the key of the models owned by brandID
func ModelsByBrandKey(brandID string) string { return RelationKey(ModelNamespace, "brand", brandID) }

// ServiceKey is the key of one catalog service
func ServiceKey(id string) string { return EntityKey(ServiceNamespace, id) }

// ServicesAllKey holds the whole service catalog, inactive entries included
func ServicesAllKey() string { return CollectionKey(ServiceNamespace) }

// ServicesActiveKey holds the services that can still be attached to new jobs
func ServicesActiveKey() string { return ServiceNamespace + ":active" }

// StatisticsKey holds the dashboard metrics
func StatisticsKey() string { return StatisticsNamespace + ":dashboard" }

// RepairJobsPattern matches every cached repair job listing
func RepairJobsPattern() string { return NamespacePattern(RepairJobNamespace) }

// RepairJobsListKey identifies one page of the active job listing
func RepairJobsListKey(filter models.RepairJobFilter, opts models.ListOptions) string {
	status := "active"
	if filter.Status != nil {
		status = filter.Status.String()
	}
	motorcycle := "any"
	if filter.MotorcycleID != "" {
		motorcycle = filter.MotorcycleID
	}
	opts.Normalize()
	return fmt.Sprintf("%s:list:status=%s:motorcycle=%s:limit=%d:offset=%d",
		RepairJobNamespace, status, motorcycle, opts.Limit, opts.Offset)
}

// Invalidation is the set of keys and patterns a mutation makes stale
type Invalidation struct {
	Keys     []string
	Patterns []string
}

// BrandInvalidation covers a created, updated or deleted brand. Models embed their
// brand, so every model key goes too.
func BrandInvalidation(brandID string) Invalidation {
	return Invalidation{
		Keys:     []string{BrandKey(brandID), BrandsAllKey()},
		Patterns: []string{NamespacePattern(ModelNamespace)},
	}
}

// ModelInvalidation covers a mutated model. brandIDs lists every brand the model
// belonged to before and after the mutation; each gets its scoped list and entity
// key invalidated.
func ModelInvalidation(modelID string, brandIDs ...string) Invalidation {
	inv := Invalidation{Keys: []string{ModelKey(modelID), ModelsAllKey()}}

	seen := make(map[string]bool, len(brandIDs))
	for _, brandID := range brandIDs {
		if brandID == "" || seen[brandID] {
			continue
		}
		seen[brandID] = true
		inv.Keys = append(inv.Keys, ModelsByBrandKey(brandID), BrandKey(brandID))
	}
	return inv
}

// ServiceInvalidation covers a mutated catalog service
func ServiceInvalidation(serviceID string) Invalidation {
	return Invalidation{
		Keys: []string{ServiceKey(serviceID), ServicesAllKey(), ServicesActiveKey()},
	}
}

// RepairJobInvalidation covers any repair job mutation. Job listings and statistics
// are always dropped whole.
func RepairJobInvalidation() Invalidation {
	return Invalidation{
		Keys:     []string{StatisticsKey()},
		Patterns: []string{RepairJobsPattern()},
	}
}
