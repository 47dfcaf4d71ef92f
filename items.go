package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// counterResult is the item_by_counter payload. The endpoint answers with
// either the full item or a redirect stub pointing at it; exactly one of
// the two fields is set after decoding.
type counterResult struct {
	Item     *Item
	Redirect *itemRedirect
}

type itemRedirect struct {
	ItemID ItemID
}

// UnmarshalJSON tries the full item first. A payload only counts as a
// redirect when it lacks one of the item's required fields, so a redirect
// shape that happens to be a subset of an item never wins over the item
// itself, even when the item turns out to be malformed.
func (r *counterResult) UnmarshalJSON(data []byte) error {
	var required struct {
		ID        *json.RawMessage `json:"id"`
		ProjectID *json.RawMessage `json:"project_id"`
		Counter   *json.RawMessage `json:"counter"`
		Title     *json.RawMessage `json:"title"`
		Status    *json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(data, &required); err != nil {
		return fmt.Errorf("neither item nor redirect: %w", err)
	}

	if required.ID != nil && required.ProjectID != nil && required.Counter != nil &&
		required.Title != nil && required.Status != nil {
		var item Item
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}

		*r = counterResult{Item: &item}
		return nil
	}

	var stub struct {
		ItemID *flexibleUint64 `json:"itemId"`
	}
	if err := json.Unmarshal(data, &stub); err != nil {
		return fmt.Errorf("decode redirect: %w", err)
	}

	if stub.ItemID == nil {
		return errors.New("neither item nor redirect: no id or itemId")
	}

	if *stub.ItemID == 0 {
		return errors.New("decode redirect: itemId must be positive")
	}

	*r = counterResult{Redirect: &itemRedirect{ItemID: ItemID(*stub.ItemID)}}
	return nil
}

func (r counterResult) itemID() ItemID {
	if r.Item != nil {
		return r.Item.ID
	}

	return r.Redirect.ItemID
}

// instanceList is the instances payload: a bare list, or an object holding
// the list under "instances". Either way it normalizes to one ordered slice.
type instanceList []ItemInstance

func (l *instanceList) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		var bare []ItemInstance
		if err := json.Unmarshal(data, &bare); err != nil {
			return fmt.Errorf("decode instance list: %w", err)
		}

		*l = bare
		return nil
	}

	var wrapped struct {
		Instances *[]ItemInstance `json:"instances"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("decode wrapped instance list: %w", err)
	}

	if wrapped.Instances == nil {
		return errors.New("wrapped instance list has no instances field")
	}

	*l = *wrapped.Instances
	return nil
}

// latest returns the freshest instance of the page. The API orders the page
// so the most recent entry is last; this is the only place that relies on
// the position.
func (l instanceList) latest() *ItemInstance {
	if len(l) == 0 {
		return nil
	}

	last := l[len(l)-1]
	return &last
}

// itemList is the /items payload: a bare list or {"items": [...]}.
type itemList []Item

func (l *itemList) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		var bare []Item
		if err := json.Unmarshal(data, &bare); err != nil {
			return fmt.Errorf("decode item list: %w", err)
		}

		*l = bare
		return nil
	}

	var wrapped struct {
		Items *[]Item `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("decode wrapped item list: %w", err)
	}

	if wrapped.Items == nil {
		return errors.New("wrapped item list has no items field")
	}

	*l = *wrapped.Items
	return nil
}

// activeItemList is the top_active_items payload. Current API versions wrap
// each entry as {"item": {...}}; older ones return a plain item list.
type activeItemList []Item

type activeEntry struct {
	Item *json.RawMessage `json:"item"`
}

func (l *activeItemList) UnmarshalJSON(data []byte) error {
	var entries []activeEntry
	if err := json.Unmarshal(data, &entries); err == nil && len(entries) > 0 && allWrapped(entries) {
		items := make([]Item, 0, len(entries))
		for index, entry := range entries {
			var item Item
			if err := unmarshalActive(*entry.Item, &item); err != nil {
				return fmt.Errorf("active item %d: %w", index, err)
			}
			items = append(items, item)
		}

		*l = items
		return nil
	}

	var plain itemList
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}

	*l = activeItemList(plain)
	return nil
}

func allWrapped(entries []activeEntry) bool {
	for _, entry := range entries {
		if entry.Item == nil {
			return false
		}
	}

	return true
}

// isJSONArray reports whether data holds a JSON array, so a bare list with a
// bad element reports that element instead of a shape mismatch.
func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// unmarshalActive decodes an entry of the active report, which may omit the
// status or send it as null; entries on that report are active by definition.
func unmarshalActive(data json.RawMessage, item *Item) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}

	if status, ok := fields["status"]; !ok || string(status) == "null" {
		fields["status"] = json.RawMessage(`"active"`)

		patched, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encode item: %w", err)
		}

		if err := json.Unmarshal(patched, item); err != nil {
			return err
		}

		item.Raw = append(json.RawMessage(nil), data...)
		return nil
	}

	return json.Unmarshal(data, item)
}

// ResolveItemID maps a project counter to the item's internal id.
func (c *Client) ResolveItemID(ctx context.Context, counter Counter) (ItemID, error) {
	result, err := getResult[counterResult](ctx, c, request{
		op:         "item_by_counter",
		path:       "/item_by_counter/{counter}",
		pathParams: map[string]string{"counter": counter.String()},
	})
	if err != nil {
		return 0, err
	}

	return result.itemID(), nil
}

// GetItem fetches the full item record.
func (c *Client) GetItem(ctx context.Context, id ItemID) (Item, error) {
	return getResult[Item](ctx, c, request{
		op:         "item",
		path:       "/item/{itemId}/",
		pathParams: map[string]string{"itemId": id.String()},
	})
}

// GetLatestInstance returns the most recent occurrence of the item, or nil
// when the item has no recorded instances.
func (c *Client) GetLatestInstance(ctx context.Context, id ItemID) (*ItemInstance, error) {
	instances, err := getResult[instanceList](ctx, c, request{
		op:         "item instances",
		path:       "/item/{itemId}/instances",
		pathParams: map[string]string{"itemId": id.String()},
		query:      map[string]string{"per_page": "1"},
	})
	if err != nil {
		return nil, err
	}

	return instances.latest(), nil
}

// ListItems returns the first page of the project's items, optionally
// filtered by status ("active", "resolved", "muted", ...).
func (c *Client) ListItems(ctx context.Context, status string) ([]Item, error) {
	req := request{
		op:   "items",
		path: "/items",
	}
	if status != "" {
		req.query = map[string]string{"status": status}
	}

	items, err := getResult[itemList](ctx, c, req)
	if err != nil {
		return nil, err
	}

	return []Item(items), nil
}

// ListActiveItems returns the items of the top active items report, at most
// limit of them when limit is positive.
func (c *Client) ListActiveItems(ctx context.Context, limit int) ([]Item, error) {
	items, err := getResult[activeItemList](ctx, c, request{
		op:   "top active items",
		path: "/reports/top_active_items",
	})
	if err != nil {
		return nil, err
	}

	return truncate([]Item(items), limit), nil
}
