package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	client "github.com/peteraglen/rollbar-go-client"
)

const (
	listActive = "active"
	listRecent = "recent"
)

// listFlags holds the flags that only apply with --list.
type listFlags struct {
	limit          int
	environment    string
	status         string
	since          string
	until          string
	minOccurrences uint64
	maxOccurrences uint64
}

var listFlagNames = []string{"limit", "environment", "status", "since", "until", "min-occurrences", "max-occurrences"}

func (l *listFlags) register(flagSet *pflag.FlagSet) {
	flagSet.IntVar(&l.limit, "limit", 20, "maximum number of listed items (0 for no limit)")
	flagSet.StringVar(&l.environment, "environment", "", "only items from this environment")
	flagSet.StringVar(&l.status, "status", "", "only items with this status")
	flagSet.StringVar(&l.since, "since", "", "only items last seen at or after this time (RFC3339 or unix seconds)")
	flagSet.StringVar(&l.until, "until", "", "only items last seen at or before this time (RFC3339 or unix seconds)")
	flagSet.Uint64Var(&l.minOccurrences, "min-occurrences", 0, "only items seen at least this many times")
	flagSet.Uint64Var(&l.maxOccurrences, "max-occurrences", 0, "only items seen at most this many times")
}

// changed returns the first list flag set on the command line.
func (l *listFlags) changed(flagSet *pflag.FlagSet) (string, bool) {
	for _, name := range listFlagNames {
		if flagSet.Changed(name) {
			return name, true
		}
	}
	return "", false
}

func (l *listFlags) filter(flagSet *pflag.FlagSet) (client.ItemFilter, error) {
	if l.limit < 0 {
		return client.ItemFilter{}, errors.New("--limit must not be negative")
	}

	filter := client.ItemFilter{
		Environment: l.environment,
		Status:      l.status,
	}

	var err error
	if filter.Since, err = parseFilterTime(l.since); err != nil {
		return client.ItemFilter{}, fmt.Errorf("parse --since: %w", err)
	}

	if filter.Until, err = parseFilterTime(l.until); err != nil {
		return client.ItemFilter{}, fmt.Errorf("parse --until: %w", err)
	}

	if flagSet.Changed("min-occurrences") {
		filter.MinOccurrences = &l.minOccurrences
	}

	if flagSet.Changed("max-occurrences") {
		filter.MaxOccurrences = &l.maxOccurrences
	}

	if err := filter.Validate(); err != nil {
		return client.ItemFilter{}, err
	}

	return filter, nil
}

func parseFilterTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		if seconds < 0 {
			return nil, errors.New("unix seconds must not be negative")
		}
		parsed := time.Unix(seconds, 0).UTC()
		return &parsed, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}

	parsed = parsed.UTC()
	return &parsed, nil
}

func runList(ctx context.Context, c *client.Client, f flags, filter client.ItemFilter, stdout io.Writer) error {
	var (
		items []client.Item
		err   error
	)
	if f.list == listRecent {
		items, err = c.RecentItems(ctx, f.listing.limit, filter)
	} else {
		items, err = c.ActiveItems(ctx, f.listing.limit, filter)
	}
	if err != nil {
		return err
	}

	if f.asJSON {
		if items == nil {
			items = []client.Item{}
		}
		return writeJSON(stdout, items)
	}

	printItems(stdout, items)
	return nil
}

func printItems(w io.Writer, items []client.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no matching items")
		return
	}

	for _, item := range items {
		occurrences := "-"
		if item.TotalOccurrences != nil {
			occurrences = strconv.FormatUint(*item.TotalOccurrences, 10)
		}

		environment := "-"
		if item.Environment != nil {
			environment = *item.Environment
		}

		fmt.Fprintf(w, "#%-6s %-9s %-12s %6s  %s\n", item.Counter, item.Status, environment, occurrences, item.Title)
	}
}
