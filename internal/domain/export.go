package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RowRole is the structural role of an export row. It controls styling in
// the renderer and tells consumers how many source records the row stands for.
type RowRole string

const (
	// RoleStandalone is a plain one-record row outside any container group.
	RoleStandalone RowRole = "standalone"
	// RoleParent is the container summary row of an expanded group.
	RoleParent RowRole = "parent"
	// RoleChild is one member row beneath a parent in an expanded group.
	RoleChild RowRole = "child"
	// RoleCompact is a whole group collapsed into a single multi-line row.
	RoleCompact RowRole = "compact"
)

// GroupKey identifies records that were submitted together as one physical
// container: the same truncated time bucket, the same location, and the same
// resolved container name. It is comparable and used directly as a map key.
type GroupKey struct {
	// Bucket is the unix second of CreatedAt truncated to the tolerance window.
	Bucket     int64
	LocationID uuid.UUID
	Container  string
}

// NewGroupKey builds the grouping key for a record. Records whose timestamps
// fall into different tolerance buckets never merge, even with identical
// location and container.
func NewGroupKey(rec RawSubmissionRecord, container string, tolerance time.Duration) GroupKey {
	return GroupKey{
		Bucket:     rec.CreatedAt.Truncate(tolerance).Unix(),
		LocationID: rec.LocationID,
		Container:  container,
	}
}

// String renders the key as a stable group id for export rows.
func (k GroupKey) String() string {
	return fmt.Sprintf("%d|%s|%s", k.Bucket, k.LocationID, k.Container)
}

// ExportRow is one flattened, transformed output row. Values holds only the
// caller-selected column ids; Role, GroupID, GroupSize, and Details are
// structural metadata and are always present regardless of column selection.
// Rows are created by the transformer, consumed by the renderer, and never
// persisted.
type ExportRow struct {
	Role    RowRole
	GroupID string
	// GroupSize is the number of source records behind this row: 1 for
	// standalone and child rows, the member count for parent and compact rows.
	GroupSize int
	Values    map[string]any
	// Details carries the per-product breakdown of a compact submissions
	// group. It feeds only the secondary "Product Details" worksheet and is
	// nil for every other role and dataset.
	Details []ProductDetail
}

// ProductDetail is the denormalized per-product contribution to a container
// group, with all join-resolved context fields attached.
type ProductDetail struct {
	Date          time.Time
	OwnerName     string
	LocationName  string
	WaveName      string
	ContainerName string
	ProductName   string
	Quantity      int64
	UnitValue     decimal.Decimal
	LineTotal     decimal.Decimal
}
