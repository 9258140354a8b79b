package catalog

import (
	"encoding/json"
	"time"
)

type ItemCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Unit struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type Item struct {
	ID             string        `json:"id"`
	Code           string        `json:"code"`
	Name           string        `json:"name"`
	Price          float64       `json:"price"`
	ItemCategoryID string        `json:"itemCategoryId"`
	UnitID         string        `json:"unitId"`
	ItemCategory   *ItemCategory `json:"itemCategory,omitempty"`
	Unit           *Unit         `json:"unit,omitempty"`
	ItemOutlets    []ItemOutlet  `json:"itemOutlets,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type Outlet struct {
	ID             string `json:"id"`
	BusinessUnitID string `json:"businessUnitId"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
}

type ItemOutlet struct {
	ID       string  `json:"id"`
	ItemID   string  `json:"itemId"`
	OutletID string  `json:"outletId"`
	Price    float64 `json:"price"`
	Stock    float64 `json:"stock"`
	Item     *Item   `json:"item,omitempty"`
	Outlet   *Outlet `json:"outlet,omitempty"`
}

type BusinessUnit struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Outlets []Outlet `json:"outlets,omitempty"`
}

type SaleLine struct {
	ItemID   string  `json:"itemId"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Item     *Item   `json:"item,omitempty"`
}

type Sale struct {
	ID         string     `json:"id"`
	Number     string     `json:"number"`
	OutletID   string     `json:"outletId"`
	EmployeeID string     `json:"employeeId"`
	Total      float64    `json:"total"`
	Status     string     `json:"status"`
	SoldAt     time.Time  `json:"soldAt"`
	Outlet     *Outlet    `json:"outlet,omitempty"`
	Employee   *Employee  `json:"employee,omitempty"`
	Lines      []SaleLine `json:"saleItems,omitempty"`
}

type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type PurchaseLine struct {
	ItemID   string  `json:"itemId"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
	Item     *Item   `json:"item,omitempty"`
}

type Purchase struct {
	ID          string         `json:"id"`
	Number      string         `json:"number"`
	SupplierID  string         `json:"supplierId"`
	OutletID    string         `json:"outletId"`
	Total       float64        `json:"total"`
	Status      string         `json:"status"`
	PurchasedAt time.Time      `json:"purchasedAt"`
	Supplier    *Supplier      `json:"supplier,omitempty"`
	Outlet      *Outlet        `json:"outlet,omitempty"`
	Lines       []PurchaseLine `json:"purchaseItems,omitempty"`
}

type Production struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	OutletID   string    `json:"outletId"`
	ItemID     string    `json:"itemId"`
	Quantity   float64   `json:"quantity"`
	Status     string    `json:"status"`
	ProducedAt time.Time `json:"producedAt"`
	Item       *Item     `json:"item,omitempty"`
	Outlet     *Outlet   `json:"outlet,omitempty"`
}

type Employee struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	BusinessUnitID string        `json:"businessUnitId"`
	BusinessUnit   *BusinessUnit `json:"businessUnit,omitempty"`
	Outlets        []Outlet      `json:"outlets,omitempty"`
}

// Setting values are free-form and left undecoded.
type Setting struct {
	ID    string          `json:"id"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}
