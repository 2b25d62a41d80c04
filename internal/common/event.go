package common

import (
	"context"
	"encoding/json"

	"github.com/fatih/structs"
	"github.com/questx-lab/giveaway/pkg/pubsub"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

const (
	EntryCreatedEvent   = "entry_created"
	WinnerSelectedEvent = "winner_selected"
)

type EntryCreated struct {
	EntryID    string `structs:"entry_id"`
	UserID     string `structs:"user_id"`
	GiveawayID string `structs:"giveaway_id"`
	CostPaid   int64  `structs:"cost_paid"`
}

type WinnerSelected struct {
	GiveawayID string `structs:"giveaway_id"`
	WinnerID   string `structs:"winner_id"`
	EntryID    string `structs:"entry_id"`
	SelectedAt string `structs:"selected_at"`
}

type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// PublishEvent sends an event keyed by giveaway id to the configured topic.
// Failures are only logged.
func PublishEvent(ctx context.Context, publisher pubsub.Publisher, key, eventType string, data any) {
	b, err := json.Marshal(Event{Type: eventType, Data: structs.Map(data)})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", eventType, err)
		return
	}

	topic := xcontext.Configs(ctx).Giveaway.EventTopic
	if err := publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish event %s: %v", eventType, err)
	}
}
