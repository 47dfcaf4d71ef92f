package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ShowItem resolves counter and fetches the item together with its latest
// occurrence. The three requests run one after another.
func (c *Client) ShowItem(ctx context.Context, counter Counter) (ItemDetail, error) {
	id, err := c.ResolveItemID(ctx, counter)
	if err != nil {
		return ItemDetail{}, fmt.Errorf("resolve item id: %w", err)
	}

	item, err := c.GetItem(ctx, id)
	if err != nil {
		return ItemDetail{}, fmt.Errorf("get item: %w", err)
	}

	instance, err := c.GetLatestInstance(ctx, id)
	if err != nil {
		return ItemDetail{}, fmt.Errorf("get latest instance: %w", err)
	}

	mainError := unknownMainError
	if instance != nil {
		mainError = instance.MainError()
	}
	if mainError == unknownMainError && strings.TrimSpace(item.Title) != "" {
		mainError = item.Title
	}

	return ItemDetail{
		Item:      item,
		Instance:  instance,
		MainError: mainError,
	}, nil
}

// ResolveItemIDs resolves several counters in parallel, at most the
// configured concurrency at a time (see [WithConcurrency]). The result has
// the same order as counters. The first failure cancels the remaining
// requests and is returned.
func (c *Client) ResolveItemIDs(ctx context.Context, counters ...Counter) ([]ItemID, error) {
	if c == nil {
		return nil, errors.New("rollbar client is nil")
	}

	ids := make([]ItemID, len(counters))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.options.concurrency)

	for index, counter := range counters {
		group.Go(func() error {
			id, err := c.ResolveItemID(ctx, counter)
			if err != nil {
				return fmt.Errorf("resolve counter %s: %w", counter, err)
			}

			ids[index] = id
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return ids, nil
}
