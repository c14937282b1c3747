package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ListGroups returns the inventory list: filtered records folded into one
// row per item name and category, low-stock rows first.
func (s *Service) ListGroups(ctx context.Context, f model.GroupFilter) ([]model.GroupRow, error) {
	if err := s.check(f); err != nil {
		return nil, err
	}

	units, err := store.ListUnits(ctx, s.db)
	if err != nil {
		return nil, err
	}

	threshold := s.cfg.LowStockThreshold
	if f.Threshold != nil {
		threshold = *f.Threshold
	}
	return groupUnits(units, f, threshold), nil
}

func groupUnits(units []model.Unit, f model.GroupFilter, threshold int) []model.GroupRow {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var rows []*model.GroupRow
	index := map[model.GroupKey]*model.GroupRow{}

	for _, u := range units {
		if !matches(&u, f, search) {
			continue
		}

		key := u.Key()
		row, ok := index[key]
		if !ok {
			row = &model.GroupRow{
				GroupKey:  key,
				StatusID:  u.StatusID,
				DateAdded: u.DateAdded,
			}
			index[key] = row
			rows = append(rows, row)
		}

		n := u.Count()
		row.Quantity += n
		row.TotalQuantity += n
		if u.SerialNumber != nil {
			row.SerialNumbers = append(row.SerialNumbers, *u.SerialNumber)
		}
		if u.NumberPhone != nil {
			row.PhoneNumbers = append(row.PhoneNumbers, *u.NumberPhone)
		}
		if u.StatusID != row.StatusID {
			row.HasMixedStatus = true
		}
		if u.DateAdded.After(row.DateAdded) {
			row.DateAdded = u.DateAdded
		}
		row.Members = append(row.Members, u)
	}

	result := make([]model.GroupRow, 0, len(rows))
	for _, row := range rows {
		row.LowStock = !row.HasTrackedUnits() && row.Quantity <= threshold
		if f.LowStock && !row.LowStock {
			continue
		}
		result = append(result, *row)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := &result[i], &result[j]
		if a.LowStock != b.LowStock {
			return a.LowStock
		}
		if !a.DateAdded.Equal(b.DateAdded) {
			return a.DateAdded.After(b.DateAdded)
		}
		if a.ItemName != b.ItemName {
			return a.ItemName < b.ItemName
		}
		return a.CategoryID < b.CategoryID
	})

	return result
}

func matches(u *model.Unit, f model.GroupFilter, search string) bool {
	if f.CategoryID != 0 && u.CategoryID != f.CategoryID {
		return false
	}
	if f.StatusID != 0 && u.StatusID != f.StatusID {
		return false
	}
	if f.ConditionID != 0 && u.ConditionID != f.ConditionID {
		return false
	}
	if f.HasSerial != nil && (u.SerialNumber != nil) != *f.HasSerial {
		return false
	}
	if f.Type != "" && u.TrackingType() != f.Type {
		return false
	}
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.ItemName), search) ||
		strings.Contains(strings.ToLower(u.TrackingKey()), search)
}
