package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawSubmissionRecord is one unit of a promotional item submitted by an owner
// at a location within a wave. Records are fetched read-only and never
// mutated; several records submitted together as one physical container are
// reconstructed into a group by the transformer.
type RawSubmissionRecord struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	OwnerID      uuid.UUID
	LocationID   uuid.UUID
	WaveID       uuid.UUID
	ItemType     string
	ItemID       uuid.UUID
	Quantity     int64
	ValuePerUnit decimal.Decimal
	PhotoURLs    []string
}

// Owner is the field agent (territory manager) responsible for visits and
// submissions at a location.
type Owner struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Region    string
	Active    bool
	CreatedAt time.Time
}

// Location is a retail site that is visited and submitted against.
type Location struct {
	ID     uuid.UUID
	Name   string
	City   string
	Region string
}

// Wave is a time-boxed promotional campaign with item targets assigned to
// locations.
type Wave struct {
	ID       uuid.UUID
	Name     string
	StartsAt time.Time
	EndsAt   *time.Time
}

// CatalogItem is a promotional item definition from the wave catalog.
// ContainerName is non-empty only for container-bearing item types
// (palette, crate); such items are candidates for submission grouping.
// UnitValue, when valid, overrides the per-record stored value.
type CatalogItem struct {
	ID            uuid.UUID
	Name          string
	ItemType      string
	ContainerName string
	UnitValue     decimal.NullDecimal
}

// Containered reports whether submissions of this item are grouping
// candidates, i.e. the item type carries a physical container.
func (c CatalogItem) Containered() bool {
	return c.ContainerName != ""
}
