package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Counter is the per-project, human-facing item number shown in the Rollbar
// UI (the "#123" of an item).
type Counter uint64

// ParseCounter parses a positive base-10 item counter.
func ParseCounter(value string) (Counter, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse item counter: %w", err)
	}

	if parsed == 0 {
		return 0, errors.New("parse item counter: counter must be positive")
	}

	return Counter(parsed), nil
}

func (c Counter) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ItemID is the service-internal identifier of an item. Values are obtained
// from [Client.ResolveItemID] or from an [Item] returned by the API.
type ItemID uint64

func (id ItemID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Item is a snapshot of a Rollbar item. Optional fields are nil when the
// API omitted them, so an absent environment is distinguishable from an
// empty one and an absent occurrence count from a count of zero.
type Item struct {
	ID                      ItemID          `json:"id"`
	ProjectID               uint64          `json:"project_id"`
	Counter                 Counter         `json:"counter"`
	Title                   string          `json:"title"`
	Status                  string          `json:"status"`
	Level                   string          `json:"level,omitempty"`
	Environment             *string         `json:"environment,omitempty"`
	TotalOccurrences        *uint64         `json:"total_occurrences,omitempty"`
	LastOccurrenceID        *uint64         `json:"last_occurrence_id,omitempty"`
	LastOccurrenceTimestamp *uint64         `json:"last_occurrence_timestamp,omitempty"`
	Raw                     json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes an item and fails when any of id, project_id,
// counter, title or status is missing. The strictness is what lets the
// item_by_counter endpoint tell a full item apart from a redirect stub.
func (i *Item) UnmarshalJSON(data []byte) error {
	var dto struct {
		ID                      *flexibleUint64 `json:"id"`
		ProjectID               *uint64         `json:"project_id"`
		Counter                 *uint64         `json:"counter"`
		Title                   *string         `json:"title"`
		Status                  *string         `json:"status"`
		Level                   flexibleLevel   `json:"level"`
		Environment             *string         `json:"environment"`
		TotalOccurrences        *uint64         `json:"total_occurrences"`
		Occurrences             *uint64         `json:"occurrences"`
		LastOccurrenceID        *uint64         `json:"last_occurrence_id"`
		LastOccurrenceTimestamp *uint64         `json:"last_occurrence_timestamp"`
	}

	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}

	var missing []string
	if dto.ID == nil {
		missing = append(missing, "id")
	}
	if dto.ProjectID == nil {
		missing = append(missing, "project_id")
	}
	if dto.Counter == nil {
		missing = append(missing, "counter")
	}
	if dto.Title == nil {
		missing = append(missing, "title")
	}
	if dto.Status == nil {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return fmt.Errorf("decode item: missing required fields %s", strings.Join(missing, ", "))
	}

	if *dto.ID == 0 {
		return errors.New("decode item: id must be positive")
	}

	*i = Item{
		ID:                      ItemID(*dto.ID),
		ProjectID:               *dto.ProjectID,
		Counter:                 Counter(*dto.Counter),
		Title:                   *dto.Title,
		Status:                  *dto.Status,
		Level:                   string(dto.Level),
		Environment:             dto.Environment,
		TotalOccurrences:        dto.TotalOccurrences,
		LastOccurrenceID:        dto.LastOccurrenceID,
		LastOccurrenceTimestamp: dto.LastOccurrenceTimestamp,
		Raw:                     append(json.RawMessage(nil), data...),
	}

	// Older list endpoints report the count as "occurrences".
	if i.TotalOccurrences == nil {
		i.TotalOccurrences = dto.Occurrences
	}

	return nil
}

// ItemInstance is a single recorded occurrence of an item. Depending on the
// API version the event payload arrives in either Body or Data.
type ItemInstance struct {
	ID        uint64          `json:"id"`
	Timestamp *uint64         `json:"timestamp,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

func (in *ItemInstance) UnmarshalJSON(data []byte) error {
	var dto struct {
		ID        *flexibleUint64 `json:"id"`
		Timestamp *uint64         `json:"timestamp"`
		Body      json.RawMessage `json:"body"`
		Data      json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("decode instance: %w", err)
	}

	if dto.ID == nil {
		return errors.New("decode instance: missing required field id")
	}

	*in = ItemInstance{
		ID:        uint64(*dto.ID),
		Timestamp: dto.Timestamp,
		Body:      nonNull(dto.Body),
		Data:      nonNull(dto.Data),
		Raw:       append(json.RawMessage(nil), data...),
	}

	return nil
}

// Payload returns the free-form event payload, preferring Data over Body.
// It returns nil when neither is present.
func (in ItemInstance) Payload() json.RawMessage {
	if len(in.Data) > 0 {
		return in.Data
	}

	return in.Body
}

// Time returns the occurrence time, or the zero time when the instance has
// no timestamp.
func (in ItemInstance) Time() time.Time {
	if in.Timestamp == nil {
		return time.Time{}
	}

	return time.Unix(int64(*in.Timestamp), 0).UTC()
}

// ItemDetail is the combined view returned by [Client.ShowItem].
type ItemDetail struct {
	Item      Item          `json:"item"`
	Instance  *ItemInstance `json:"instance,omitempty"`
	MainError string        `json:"main_error"`
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	return raw
}

// flexibleUint64 accepts both 123 and "123".
type flexibleUint64 uint64

func (v *flexibleUint64) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode uint64 string: %w", err)
		}

		parsed, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return fmt.Errorf("parse uint64 string: %w", err)
		}

		*v = flexibleUint64(parsed)
		return nil
	}

	var parsed uint64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("decode uint64: %w", err)
	}

	*v = flexibleUint64(parsed)
	return nil
}

// flexibleLevel accepts either a level name or Rollbar's numeric level.
type flexibleLevel string

func (v *flexibleLevel) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*v = flexibleLevel(name)
		return nil
	}

	var number int
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("decode level: %w", err)
	}

	switch number {
	case 10:
		*v = "debug"
	case 20:
		*v = "info"
	case 30:
		*v = "warning"
	case 40:
		*v = "error"
	case 50:
		*v = "critical"
	default:
		*v = flexibleLevel(strconv.Itoa(number))
	}

	return nil
}
