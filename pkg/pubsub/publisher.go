package pubsub

import "context"

type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}

type discardPublisher struct{}

// Discard is a Publisher dropping every message. It is used when no broker is
// configured.
var Discard Publisher = discardPublisher{}

func (discardPublisher) Publish(context.Context, string, *Pack) error {
	return nil
}
