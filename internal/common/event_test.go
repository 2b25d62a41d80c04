package common

import (
	"encoding/json"
	"testing"

	"github.com/questx-lab/giveaway/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestPublishEvent(t *testing.T) {
	ctx := testutil.MockContext()
	publisher := &testutil.MockPublisher{}

	PublishEvent(ctx, publisher, "g1", EntryCreatedEvent, EntryCreated{
		EntryID:    "e1",
		UserID:     "u1",
		GiveawayID: "g1",
		CostPaid:   100,
	})

	packs := publisher.Packs["giveaway"]
	require.Len(t, packs, 1)
	require.Equal(t, []byte("g1"), packs[0].Key)

	var event Event
	require.NoError(t, json.Unmarshal(packs[0].Msg, &event))
	require.Equal(t, EntryCreatedEvent, event.Type)
	require.Equal(t, "u1", event.Data["user_id"])
	require.Equal(t, float64(100), event.Data["cost_paid"])
}
