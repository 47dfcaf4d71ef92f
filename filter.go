package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// ItemFilter narrows a list of items on the client side. Zero-valued fields
// match every item. Text fields compare case-insensitively after trimming;
// Since and Until bound the last occurrence and are inclusive.
type ItemFilter struct {
	Environment    string
	Status         string
	Since          *time.Time
	Until          *time.Time
	MinOccurrences *uint64
	MaxOccurrences *uint64
}

// Validate reports a filter whose bounds cannot match anything.
func (f ItemFilter) Validate() error {
	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return errors.New("since must be before or equal to until")
	}

	if f.MinOccurrences != nil && f.MaxOccurrences != nil && *f.MinOccurrences > *f.MaxOccurrences {
		return errors.New("min occurrences must not exceed max occurrences")
	}

	return nil
}

func (f ItemFilter) isZero() bool {
	return strings.TrimSpace(f.Environment) == "" && strings.TrimSpace(f.Status) == "" &&
		f.Since == nil && f.Until == nil && f.MinOccurrences == nil && f.MaxOccurrences == nil
}

// Match reports whether item passes every set criterion.
func (f ItemFilter) Match(item Item) bool {
	environment := ""
	if item.Environment != nil {
		environment = *item.Environment
	}

	return matchText(f.Environment, environment) &&
		matchText(f.Status, item.Status) &&
		f.matchLastOccurrence(item.LastOccurrenceTimestamp) &&
		f.matchOccurrences(item.TotalOccurrences)
}

// Apply returns the items that match, in their original order. The input is
// returned as is when the filter is empty.
func (f ItemFilter) Apply(items []Item) []Item {
	if f.isZero() {
		return items
	}

	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			matched = append(matched, item)
		}
	}

	return matched
}

func matchText(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}

	return strings.EqualFold(want, strings.TrimSpace(got))
}

// An item that was never seen fails any time bound.
func (f ItemFilter) matchLastOccurrence(timestamp *uint64) bool {
	if f.Since == nil && f.Until == nil {
		return true
	}

	if timestamp == nil {
		return false
	}

	seen := int64(*timestamp)
	if f.Since != nil && seen < f.Since.Unix() {
		return false
	}

	if f.Until != nil && seen > f.Until.Unix() {
		return false
	}

	return true
}

func (f ItemFilter) matchOccurrences(total *uint64) bool {
	count := valueOrZero(total)
	if f.MinOccurrences != nil && count < *f.MinOccurrences {
		return false
	}

	if f.MaxOccurrences != nil && count > *f.MaxOccurrences {
		return false
	}

	return true
}

// ActiveItems returns the entries of the top active items report that match
// filter, at most limit of them when limit is positive.
func (c *Client) ActiveItems(ctx context.Context, limit int, filter ItemFilter) ([]Item, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	items, err := c.ListActiveItems(ctx, 0)
	if err != nil {
		return nil, err
	}

	return truncate(filter.Apply(items), limit), nil
}

// RecentItems returns the active items that match filter, most recently seen
// first. Ties are broken by total occurrences, highest first; items that were
// never seen sort last.
func (c *Client) RecentItems(ctx context.Context, limit int, filter ItemFilter) ([]Item, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	items, err := c.ListItems(ctx, "active")
	if err != nil {
		return nil, err
	}

	recent := slices.Clone(filter.Apply(items))
	sort.SliceStable(recent, func(i, j int) bool {
		left, right := valueOrZero(recent[i].LastOccurrenceTimestamp), valueOrZero(recent[j].LastOccurrenceTimestamp)
		if left != right {
			return left > right
		}
		return valueOrZero(recent[i].TotalOccurrences) > valueOrZero(recent[j].TotalOccurrences)
	})

	return truncate(recent, limit), nil
}

func valueOrZero(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}

func truncate(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
