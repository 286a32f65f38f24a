// Package service contains the transform and orchestration logic for the
// export engine. The transformer turns raw relational rows into role-tagged
// export rows; the orchestrator drives the per-dataset pipelines and owns the
// output workbook. No SQL lives here — services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
	"github.com/mwetzel/fieldwave/backend/internal/registry"
	"github.com/mwetzel/fieldwave/backend/internal/repo"
)

// DefaultGroupTolerance is the grouping window applied when no explicit
// tolerance is configured. Records of the same location and container whose
// timestamps truncate to the same window are treated as one physical
// container submission. The one-minute value is inherited business behavior;
// it is kept configurable because its rationale is undocumented.
const DefaultGroupTolerance = 60 * time.Second

// treeBranch prefixes member product labels in child rows and compact labels.
const treeBranch = "└"

// TransformService is the row transformer: per dataset it fetches filtered
// raw rows, resolves all foreign references through batched lookups, detects
// multi-item container submissions, and emits role-tagged export rows.
// It is a pure, synchronous, per-dataset pipeline with no retries.
type TransformService struct {
	submissions repo.SubmissionRepo
	owners      repo.OwnerRepo
	locations   repo.LocationRepo
	waves       repo.WaveRepo
	catalog     repo.CatalogRepo
	tolerance   time.Duration
}

// NewTransformService constructs a TransformService backed by the provided
// repos. A non-positive tolerance falls back to DefaultGroupTolerance.
func NewTransformService(
	submissions repo.SubmissionRepo,
	owners repo.OwnerRepo,
	locations repo.LocationRepo,
	waves repo.WaveRepo,
	catalog repo.CatalogRepo,
	tolerance time.Duration,
) *TransformService {
	if tolerance <= 0 {
		tolerance = DefaultGroupTolerance
	}
	return &TransformService{
		submissions: submissions,
		owners:      owners,
		locations:   locations,
		waves:       waves,
		catalog:     catalog,
		tolerance:   tolerance,
	}
}

// Rows returns the ordered export rows for one dataset, exposing only the
// requested columns plus structural metadata. Order matches the underlying
// query order (newest first for submissions).
//
// Returns domain.ErrUnknownDataset for ids absent from the registry and
// wrapped domain.ErrDataSource for any underlying fetch failure; in the
// latter case no rows are emitted for the dataset.
func (s *TransformService) Rows(ctx context.Context, datasetID string, columns []string, f domain.Filters, expand bool) ([]domain.ExportRow, error) {
	switch datasetID {
	case registry.DatasetSubmissions:
		return s.submissionRows(ctx, columns, f, expand)
	case registry.DatasetGebietsleiter:
		return s.ownerRows(ctx, columns, f)
	case registry.DatasetLocations:
		return s.locationRows(ctx, columns)
	case registry.DatasetWaves:
		return s.waveRows(ctx, columns, f)
	default:
		return nil, fmt.Errorf("service.TransformService.Rows: %w: %q", domain.ErrUnknownDataset, datasetID)
	}
}

// lookups holds the pre-built id-keyed maps for every foreign entity kind.
// All "not found" defaulting goes through these maps — never through
// per-record queries.
type lookups struct {
	owners    map[uuid.UUID]domain.Owner
	locations map[uuid.UUID]domain.Location
	waves     map[uuid.UUID]domain.Wave
	catalog   map[uuid.UUID]domain.CatalogItem
}

// group is one container submission reconstructed from flat records.
// firstIdx is the position of its first member in query order; the whole
// group is emitted there.
type group struct {
	key      domain.GroupKey
	firstIdx int
	members  []domain.RawSubmissionRecord
}

func (s *TransformService) submissionRows(ctx context.Context, columns []string, f domain.Filters, expand bool) ([]domain.ExportRow, error) {
	recs, err := s.submissions.ListFiltered(ctx, f)
	if err != nil {
		return nil, dataSourceErr("service.TransformService.Rows", err)
	}
	if len(recs) == 0 {
		return []domain.ExportRow{}, nil
	}

	lk, err := s.resolveLookups(ctx, recs)
	if err != nil {
		return nil, dataSourceErr("service.TransformService.Rows", err)
	}

	// One-time partition: compute the full group map up front so emission
	// needs no mutable "already processed" tracking.
	groups := make(map[domain.GroupKey]*group)
	for i, rec := range recs {
		container := lk.catalog[rec.ItemID].ContainerName
		if container == "" {
			continue // standalone, incl. candidates with a missing catalog entry
		}
		key := domain.NewGroupKey(rec, container, s.tolerance)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, firstIdx: i}
			groups[key] = g
		}
		g.members = append(g.members, rec)
	}

	rows := make([]domain.ExportRow, 0, len(recs))
	for i, rec := range recs {
		container := lk.catalog[rec.ItemID].ContainerName
		if container == "" {
			rows = append(rows, domain.ExportRow{
				Role:      domain.RoleStandalone,
				GroupSize: 1,
				Values:    s.memberValues(columns, rec, lk),
			})
			continue
		}

		g := groups[domain.NewGroupKey(rec, container, s.tolerance)]
		if g.firstIdx != i {
			continue // already emitted as part of its group
		}
		if expand {
			rows = append(rows, s.expandedGroupRows(columns, g, lk)...)
		} else {
			rows = append(rows, s.compactGroupRow(columns, g, lk))
		}
	}

	return rows, nil
}

// resolveLookups collects every distinct foreign id referenced by recs and
// issues one batched fetch per entity kind. The four fetches are logically
// independent reads and run concurrently; grouping waits for all of them.
func (s *TransformService) resolveLookups(ctx context.Context, recs []domain.RawSubmissionRecord) (lookups, error) {
	ownerIDs := make(map[uuid.UUID]struct{})
	locationIDs := make(map[uuid.UUID]struct{})
	waveIDs := make(map[uuid.UUID]struct{})
	itemIDs := make(map[uuid.UUID]struct{})
	for _, rec := range recs {
		ownerIDs[rec.OwnerID] = struct{}{}
		locationIDs[rec.LocationID] = struct{}{}
		waveIDs[rec.WaveID] = struct{}{}
		itemIDs[rec.ItemID] = struct{}{}
	}

	var lk lookups
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.owners.ByIDs(ctx, keys(ownerIDs))
		lk.owners = m
		return err
	})
	g.Go(func() error {
		m, err := s.locations.ByIDs(ctx, keys(locationIDs))
		lk.locations = m
		return err
	})
	g.Go(func() error {
		m, err := s.waves.ByIDs(ctx, keys(waveIDs))
		lk.waves = m
		return err
	})
	g.Go(func() error {
		m, err := s.catalog.ByIDs(ctx, keys(itemIDs))
		lk.catalog = m
		return err
	})
	if err := g.Wait(); err != nil {
		return lookups{}, err
	}
	return lk, nil
}

// expandedGroupRows emits one parent row followed by one child row per member.
// The parent carries the container name as its label, quantity 1, and the
// exact group total as its value.
func (s *TransformService) expandedGroupRows(columns []string, g *group, lk lookups) []domain.ExportRow {
	total := groupTotal(g.members, lk)
	groupID := g.key.String()

	parent := s.memberValues(columns, g.members[0], lk)
	overrideIfSelected(parent, "item_name", g.key.Container)
	overrideIfSelected(parent, "quantity", int64(1))
	overrideIfSelected(parent, "value_per_unit", total)
	overrideIfSelected(parent, "total_value", total)

	rows := make([]domain.ExportRow, 0, len(g.members)+1)
	rows = append(rows, domain.ExportRow{
		Role:      domain.RoleParent,
		GroupID:   groupID,
		GroupSize: len(g.members),
		Values:    parent,
	})

	for _, rec := range g.members {
		vals := s.memberValues(columns, rec, lk)
		overrideIfSelected(vals, "item_name", treeBranch+" "+itemName(rec, lk))
		rows = append(rows, domain.ExportRow{
			Role:      domain.RoleChild,
			GroupID:   groupID,
			GroupSize: 1,
			Values:    vals,
		})
	}
	return rows
}

// compactGroupRow collapses a group into a single row whose label is a
// multi-line itemization terminated by a total line, with the full
// ProductDetail list attached for the secondary sheet.
func (s *TransformService) compactGroupRow(columns []string, g *group, lk lookups) domain.ExportRow {
	total := groupTotal(g.members, lk)

	var label strings.Builder
	var sumQty int64
	details := make([]domain.ProductDetail, 0, len(g.members))
	for _, rec := range g.members {
		unit := resolveUnitValue(rec, lk)
		line := unit.Mul(decimal.NewFromInt(rec.Quantity))
		fmt.Fprintf(&label, "%s %s (%d×) - %s\n", treeBranch, itemName(rec, lk), rec.Quantity, euro(line))
		sumQty += rec.Quantity

		details = append(details, domain.ProductDetail{
			Date:          rec.CreatedAt,
			OwnerName:     lk.owners[rec.OwnerID].Name,
			LocationName:  lk.locations[rec.LocationID].Name,
			WaveName:      lk.waves[rec.WaveID].Name,
			ContainerName: g.key.Container,
			ProductName:   itemName(rec, lk),
			Quantity:      rec.Quantity,
			UnitValue:     unit,
			LineTotal:     line,
		})
	}
	fmt.Fprintf(&label, "Total: %s", euro(total))

	vals := s.memberValues(columns, g.members[0], lk)
	overrideIfSelected(vals, "item_name", label.String())
	overrideIfSelected(vals, "quantity", sumQty)
	overrideIfSelected(vals, "total_value", total)
	// A group has no single unit value; the cell stays empty.
	delete(vals, "value_per_unit")

	return domain.ExportRow{
		Role:      domain.RoleCompact,
		GroupID:   g.key.String(),
		GroupSize: len(g.members),
		Values:    vals,
		Details:   details,
	}
}

// memberValues projects one raw record down to the requested column set.
// Unknown column ids produce no entry; structural metadata lives on the
// ExportRow itself, never in Values.
func (s *TransformService) memberValues(columns []string, rec domain.RawSubmissionRecord, lk lookups) map[string]any {
	unit := resolveUnitValue(rec, lk)
	vals := make(map[string]any, len(columns))
	for _, id := range columns {
		switch id {
		case "created_at":
			vals[id] = rec.CreatedAt
		case "owner_name":
			vals[id] = lk.owners[rec.OwnerID].Name
		case "location_name":
			vals[id] = lk.locations[rec.LocationID].Name
		case "wave_name":
			vals[id] = lk.waves[rec.WaveID].Name
		case "item_name":
			vals[id] = itemName(rec, lk)
		case "item_type":
			vals[id] = rec.ItemType
		case "quantity":
			vals[id] = rec.Quantity
		case "value_per_unit":
			vals[id] = unit
		case "total_value":
			vals[id] = unit.Mul(decimal.NewFromInt(rec.Quantity))
		case "submitted_on":
			vals[id] = rec.CreatedAt
		case "has_photos":
			vals[id] = len(rec.PhotoURLs) > 0
		case "photo_count":
			vals[id] = int64(len(rec.PhotoURLs))
		}
	}
	return vals
}

func (s *TransformService) ownerRows(ctx context.Context, columns []string, f domain.Filters) ([]domain.ExportRow, error) {
	owners, err := s.owners.List(ctx, f)
	if err != nil {
		return nil, dataSourceErr("service.TransformService.Rows", err)
	}

	rows := make([]domain.ExportRow, 0, len(owners))
	for _, o := range owners {
		vals := make(map[string]any, len(columns))
		for _, id := range columns {
			switch id {
			case "name":
				vals[id] = o.Name
			case "email":
				vals[id] = o.Email
			case "region":
				vals[id] = o.Region
			case "active":
				vals[id] = o.Active
			case "created_at":
				vals[id] = o.CreatedAt
			}
		}
		rows = append(rows, domain.ExportRow{Role: domain.RoleStandalone, GroupSize: 1, Values: vals})
	}
	return rows, nil
}

func (s *TransformService) locationRows(ctx context.Context, columns []string) ([]domain.ExportRow, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, dataSourceErr("service.TransformService.Rows", err)
	}

	rows := make([]domain.ExportRow, 0, len(locations))
	for _, l := range locations {
		vals := make(map[string]any, len(columns))
		for _, id := range columns {
			switch id {
			case "name":
				vals[id] = l.Name
			case "city":
				vals[id] = l.City
			case "region":
				vals[id] = l.Region
			}
		}
		rows = append(rows, domain.ExportRow{Role: domain.RoleStandalone, GroupSize: 1, Values: vals})
	}
	return rows, nil
}

func (s *TransformService) waveRows(ctx context.Context, columns []string, f domain.Filters) ([]domain.ExportRow, error) {
	waves, err := s.waves.List(ctx, f)
	if err != nil {
		return nil, dataSourceErr("service.TransformService.Rows", err)
	}

	rows := make([]domain.ExportRow, 0, len(waves))
	for _, w := range waves {
		vals := make(map[string]any, len(columns))
		for _, id := range columns {
			switch id {
			case "name":
				vals[id] = w.Name
			case "starts_at":
				vals[id] = w.StartsAt
			case "ends_at":
				if w.EndsAt != nil {
					vals[id] = *w.EndsAt
				}
			}
		}
		rows = append(rows, domain.ExportRow{Role: domain.RoleStandalone, GroupSize: 1, Values: vals})
	}
	return rows, nil
}

// ---- helpers ---------------------------------------------------------------

// resolveUnitValue applies the unit value priority: catalog-declared value
// when the item carries one, then the record's own stored value, then zero
// (the decimal zero value covers the last step).
func resolveUnitValue(rec domain.RawSubmissionRecord, lk lookups) decimal.Decimal {
	if item, ok := lk.catalog[rec.ItemID]; ok && item.UnitValue.Valid {
		return item.UnitValue.Decimal
	}
	return rec.ValuePerUnit
}

// groupTotal is the exact sum of quantity × unit value over the members.
func groupTotal(members []domain.RawSubmissionRecord, lk lookups) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range members {
		total = total.Add(resolveUnitValue(rec, lk).Mul(decimal.NewFromInt(rec.Quantity)))
	}
	return total
}

// itemName resolves the display label of a record's item, falling back to the
// raw item type when the catalog entry is missing.
func itemName(rec domain.RawSubmissionRecord, lk lookups) string {
	if item, ok := lk.catalog[rec.ItemID]; ok && item.Name != "" {
		return item.Name
	}
	return rec.ItemType
}

// euro renders a decimal as a euro amount with two fixed fraction digits.
func euro(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

// overrideIfSelected replaces a projected value only when the caller selected
// the column; it never widens the projection.
func overrideIfSelected(vals map[string]any, id string, v any) {
	if _, ok := vals[id]; ok {
		vals[id] = v
	}
}

// keys returns the map's keys as a slice in unspecified order.
func keys(m map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// dataSourceErr classifies an underlying fetch failure as fatal, keeping the
// original message visible to the caller.
func dataSourceErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrDataSource, err)
}
