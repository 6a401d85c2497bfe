package contract

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

//go:generate mockgen -destination=mocks/publisher.go -package=mocks . Publisher

type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}
