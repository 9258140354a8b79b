// Package catalog declares the back-office entities the gateway proxies and
// the query allow-lists for each of them.
package catalog

import (
	"backoffice-gateway/internal/resource"
)

var (
	Items = resource.MustDefinition(resource.Schema{
		Name:    "items",
		Subject: "Item",
		Fields: map[string][]string{
			"items":        {"id", "code", "name", "price", "itemCategoryId", "unitId", "createdAt", "updatedAt"},
			"itemCategory": {"id", "name"},
			"unit":         {"id", "name", "symbol"},
			"itemOutlets":  {"id", "outletId", "price", "stock"},
			"outlet":       {"id", "name"},
		},
		Includes: []string{"itemCategory", "unit", "itemOutlets", "itemOutlets.outlet"},
		Sorts:    []string{"code", "name", "price", "createdAt", "updatedAt"},
		Filters:  []string{"itemCategoryId", "unitId"},
	})

	ItemCategories = resource.MustDefinition(resource.Schema{
		Name:    "item-categories",
		Subject: "ItemCategory",
		Fields: map[string][]string{
			"item-categories": {"id", "name", "createdAt", "updatedAt"},
		},
		Includes: []string{"items"},
		Sorts:    []string{"name", "createdAt"},
	})

	Units = resource.MustDefinition(resource.Schema{
		Name:    "units",
		Subject: "Unit",
		Fields: map[string][]string{
			"units": {"id", "name", "symbol"},
		},
		Sorts: []string{"name", "symbol"},
	})

	Outlets = resource.MustDefinition(resource.Schema{
		Name:    "outlets",
		Subject: "Outlet",
		Fields: map[string][]string{
			"outlets":      {"id", "businessUnitId", "name", "address", "phone"},
			"businessUnit": {"id", "name"},
		},
		Includes: []string{"businessUnit"},
		Sorts:    []string{"name"},
		Filters:  []string{"businessUnitId"},
	})

	ItemOutlets = resource.MustDefinition(resource.Schema{
		Name:    "item-outlets",
		Subject: "ItemOutlet",
		Fields: map[string][]string{
			"item-outlets": {"id", "itemId", "outletId", "price", "stock"},
			"item":         {"id", "code", "name", "price"},
			"itemCategory": {"id", "name"},
			"outlet":       {"id", "name"},
		},
		Includes: []string{"item", "item.itemCategory", "outlet"},
		Sorts:    []string{"price", "stock"},
		Filters:  []string{"itemId", "outletId"},
	})

	BusinessUnits = resource.MustDefinition(resource.Schema{
		Name:    "business-units",
		Subject: "BusinessUnit",
		Fields: map[string][]string{
			"business-units": {"id", "name"},
			"outlets":        {"id", "name"},
		},
		Includes: []string{"outlets"},
		Sorts:    []string{"name"},
	})

	Sales = resource.MustDefinition(resource.Schema{
		Name:    "sales",
		Subject: "Sale",
		Fields: map[string][]string{
			"sales":    {"id", "number", "outletId", "employeeId", "total", "status", "soldAt"},
			"outlet":   {"id", "name"},
			"employee": {"id", "name"},
		},
		Includes: []string{"outlet", "employee", "saleItems", "saleItems.item"},
		Sorts:    []string{"number", "total", "soldAt"},
		Filters:  []string{"outletId", "employeeId", "status"},
	})

	Purchases = resource.MustDefinition(resource.Schema{
		Name:    "purchases",
		Subject: "Purchase",
		Fields: map[string][]string{
			"purchases": {"id", "number", "supplierId", "outletId", "total", "status", "purchasedAt"},
			"supplier":  {"id", "name"},
			"outlet":    {"id", "name"},
		},
		Includes: []string{"supplier", "outlet", "purchaseItems", "purchaseItems.item"},
		Sorts:    []string{"number", "total", "purchasedAt"},
		Filters:  []string{"supplierId", "outletId", "status"},
	})

	Suppliers = resource.MustDefinition(resource.Schema{
		Name:    "suppliers",
		Subject: "Supplier",
		Fields: map[string][]string{
			"suppliers": {"id", "name", "phone", "email", "address"},
		},
		Sorts: []string{"name"},
	})

	Productions = resource.MustDefinition(resource.Schema{
		Name:    "productions",
		Subject: "Production",
		Fields: map[string][]string{
			"productions": {"id", "number", "outletId", "itemId", "quantity", "status", "producedAt"},
			"item":        {"id", "name"},
			"outlet":      {"id", "name"},
		},
		Includes: []string{"item", "outlet"},
		Sorts:    []string{"number", "quantity", "producedAt"},
		Filters:  []string{"outletId", "itemId", "status"},
	})

	Employees = resource.MustDefinition(resource.Schema{
		Name:    "employees",
		Subject: "Employee",
		Fields: map[string][]string{
			"employees":    {"id", "name", "email", "phone", "businessUnitId"},
			"businessUnit": {"id", "name"},
			"outlets":      {"id", "name"},
		},
		Includes: []string{"businessUnit", "outlets"},
		Sorts:    []string{"name", "email"},
		Filters:  []string{"businessUnitId"},
	})

	Settings = resource.MustDefinition(resource.Schema{
		Name:    "settings",
		Subject: "Setting",
		Fields: map[string][]string{
			"settings": {"id", "key", "value"},
		},
		Sorts:   []string{"key"},
		Filters: []string{"key"},
	})
)

// All lists every catalog definition.
func All() []resource.Definition {
	return []resource.Definition{
		Items, ItemCategories, Units, Outlets, ItemOutlets, BusinessUnits,
		Sales, Purchases, Suppliers, Productions, Employees, Settings,
	}
}

// Registry returns a fresh registry holding every catalog definition.
func Registry() *resource.Registry {
	reg, err := resource.NewRegistry(All()...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Clients bundles typed clients over one upstream transport.
type Clients struct {
	Items          *resource.Client[Item]
	ItemCategories *resource.Client[ItemCategory]
	Units          *resource.Client[Unit]
	Outlets        *resource.Client[Outlet]
	ItemOutlets    *resource.Client[ItemOutlet]
	BusinessUnits  *resource.Client[BusinessUnit]
	Sales          *resource.Client[Sale]
	Purchases      *resource.Client[Purchase]
	Suppliers      *resource.Client[Supplier]
	Productions    *resource.Client[Production]
	Employees      *resource.Client[Employee]
	Settings       *resource.Client[Setting]
}

func NewClients(doer resource.Doer, observer resource.RejectionObserver) *Clients {
	return &Clients{
		Items:          resource.NewClient[Item](Items, doer, observer),
		ItemCategories: resource.NewClient[ItemCategory](ItemCategories, doer, observer),
		Units:          resource.NewClient[Unit](Units, doer, observer),
		Outlets:        resource.NewClient[Outlet](Outlets, doer, observer),
		ItemOutlets:    resource.NewClient[ItemOutlet](ItemOutlets, doer, observer),
		BusinessUnits:  resource.NewClient[BusinessUnit](BusinessUnits, doer, observer),
		Sales:          resource.NewClient[Sale](Sales, doer, observer),
		Purchases:      resource.NewClient[Purchase](Purchases, doer, observer),
		Suppliers:      resource.NewClient[Supplier](Suppliers, doer, observer),
		Productions:    resource.NewClient[Production](Productions, doer, observer),
		Employees:      resource.NewClient[Employee](Employees, doer, observer),
		Settings:       resource.NewClient[Setting](Settings, doer, observer),
	}
}
