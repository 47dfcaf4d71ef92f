// Package client provides a read-only HTTP client for the Rollbar API.
//
// The client wraps [github.com/go-resty/resty/v2]. It authenticates with a
// project access token, fetches items and their occurrences, and resolves
// the counter shown in the Rollbar UI into the item's internal id.
//
// # Basic Usage
//
//	c, err := client.New(token, client.WithTimeout(5*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := c.ResolveItemID(ctx, client.Counter(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	instance, err := c.GetLatestInstance(ctx, id)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if instance == nil {
//	    // the item has no recorded occurrences
//	}
//
// # Response Shapes
//
// Every Rollbar response is wrapped in an envelope of the form
// {"err": 0, "result": ..., "message": ...}. A non-zero err, or a zero err
// without a result, is reported as an error; a missing result is never
// treated as "not found".
//
// Some endpoints answer with more than one payload shape. item_by_counter
// returns either the full item or a redirect stub carrying only "itemId";
// the full item is tried first. The instances endpoint returns either a
// bare list or {"instances": [...]}; both are handled identically and the
// last element is taken as the latest occurrence.
//
// # Listing
//
// [Client.ActiveItems] and [Client.RecentItems] list the first page of
// items and narrow it with an [ItemFilter] on the client side:
//
//	since := time.Now().Add(-24 * time.Hour)
//	items, err := c.RecentItems(ctx, 10, client.ItemFilter{
//		Environment: "production",
//		Since:       &since,
//	})
//
// # Errors
//
// Every failure is an [*Error] tagged with the operation that produced it.
// Its kind is one of [ErrTransport], [ErrStatus], [ErrDecode], [ErrService]
// or [ErrMissingResult] and can be tested with errors.Is. Nothing is retried;
// the caller decides what to do with a failure. The access token is
// redacted from every error message.
//
// # Configuration
//
// All configuration is supplied as [Option] functions passed to [New].
// Invalid values are silently ignored and the default is retained; the
// resulting configuration is validated by [New].
//
// # Logging
//
// Implement [RequestLogger], or wrap a [*slog.Logger] with [NewSlogLogger],
// and supply it via [WithRequestLogger]. The default [NoopLogger] discards
// all log output.
//
// # Concurrency
//
// A [Client] holds no per-call state and may be shared between goroutines.
// [Client.ResolveItemIDs] resolves many counters in parallel.
package client
