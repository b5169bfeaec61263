package listeners

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"asset-system/internal/events"
	"asset-system/pkg/eventbus"
)

type countingInvalidator struct{ n atomic.Int32 }

func (c *countingInvalidator) Invalidate(ctx context.Context) { c.n.Add(1) }

func TestActivityListener_InvalidatesOnEvents(t *testing.T) {
	inv := &countingInvalidator{}
	bus := eventbus.New(zap.NewNop())
	NewActivityListener(inv, 0, zap.NewNop()).Register(bus)

	actor := uint64(5)
	bus.Publish(context.Background(), events.StatusChangedEvent{EntityType: "task", EntityID: 1, FromStatus: "pending", ToStatus: "in-progress", ActorID: &actor, At: time.Now()})
	bus.Publish(context.Background(), events.DataChangedEvent{Entity: "asset", EntityID: 2, Action: events.ActionCreated})
	bus.Publish(context.Background(), testOtherEvent{})
	bus.Wait()

	assert.Equal(t, int32(2), inv.n.Load())
}

func TestActivityListener_DebounceMergesBursts(t *testing.T) {
	inv := &countingInvalidator{}
	l := NewActivityListener(inv, time.Hour, zap.NewNop())

	for i := 0; i < 10; i++ {
		_ = l.handleDataChanged(context.Background(), events.DataChangedEvent{Entity: "asset", Action: events.ActionUpdated})
	}
	assert.Equal(t, int32(0), inv.n.Load())

	l.Stop()
	assert.Equal(t, int32(1), inv.n.Load())
	l.Stop()
	assert.Equal(t, int32(1), inv.n.Load())
}

type testOtherEvent struct{}

func (testOtherEvent) Name() string { return "other" }
