package bootstrap

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewBatchQueue builds the in-process batch queue. Persistent keeps jobs
// published before the worker subscribes, so a batch submitted during startup
// still runs. Jobs from different batches may be delivered in any order.
func NewBatchQueue(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{Persistent: true},
		logger,
	)
}
