package kafka

import (
	"context"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/questx-lab/giveaway/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		require.Equal(t, `{"type":"entry_created"}`, string(val))
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newPublisherWithProducer("test", nil, producer)
	ctx := context.Background()

	err := p.Publish(ctx, "giveaway", &pubsub.Pack{Key: []byte("g1"), Msg: []byte(`{"type":"entry_created"}`)})
	require.NoError(t, err)

	err = p.Publish(ctx, "giveaway", &pubsub.Pack{Key: []byte("g1"), Msg: []byte("{}")})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, p.Stop(ctx))
}
