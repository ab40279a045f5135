package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/felixgeelhaar/doable/internal/shared/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/eventbus"
)

const testRoutingKey = "reporting.report.generated"

type recordingConsumer struct {
	eventTypes []string
	err        error

	mu     sync.Mutex
	events []*eventbus.ConsumedEvent
}

func (c *recordingConsumer) EventTypes() []string { return c.eventTypes }

func (c *recordingConsumer) Handle(_ context.Context, event *eventbus.ConsumedEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *recordingConsumer) received() []*eventbus.ConsumedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

type sampleEvent struct {
	sharedDomain.BaseEvent
	ReportType string `json:"report_type"`
}

func newSampleEvent() *sampleEvent {
	e := &sampleEvent{
		BaseEvent:  sharedDomain.NewBaseEvent(uuid.New(), "project", testRoutingKey),
		ReportType: "status",
	}
	e.CorrelateWith("corr-7")
	return e
}

func TestEncodeDecode(t *testing.T) {
	event := newSampleEvent()

	body, err := eventbus.Encode(event)
	require.NoError(t, err)

	decoded, err := eventbus.Decode(body, "ignored")
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), decoded.EventID)
	assert.Equal(t, event.AggregateID(), decoded.AggregateID)
	assert.Equal(t, "project", decoded.AggregateType)
	assert.Equal(t, testRoutingKey, decoded.RoutingKey)
	assert.Equal(t, "corr-7", decoded.Metadata.CorrelationID)
	assert.Equal(t, event.EventID().String(), decoded.Metadata.CausationID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, "status", payload["report_type"])
}

func TestDecode(t *testing.T) {
	t.Run("fills missing routing key", func(t *testing.T) {
		event, err := eventbus.Decode([]byte(`{"payload":{}}`), testRoutingKey)
		require.NoError(t, err)
		assert.Equal(t, testRoutingKey, event.RoutingKey)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		_, err := eventbus.Decode([]byte(`not json`), testRoutingKey)
		assert.Error(t, err)
	})
}

func TestConsumerRegistry_Dispatch(t *testing.T) {
	failure := errors.New("consumer failed")

	tests := []struct {
		name      string
		consumers []*recordingConsumer
		wantErr   bool
		wantCalls []int
	}{
		{
			name:      "no consumers",
			consumers: nil,
		},
		{
			name: "every matching consumer receives the event",
			consumers: []*recordingConsumer{
				{eventTypes: []string{testRoutingKey}},
				{eventTypes: []string{testRoutingKey, "other.key"}},
				{eventTypes: []string{"other.key"}},
			},
			wantCalls: []int{1, 1, 0},
		},
		{
			name: "failure does not stop later consumers",
			consumers: []*recordingConsumer{
				{eventTypes: []string{testRoutingKey}, err: failure},
				{eventTypes: []string{testRoutingKey}},
			},
			wantErr:   true,
			wantCalls: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := eventbus.NewConsumerRegistry(nil)
			for _, c := range tt.consumers {
				registry.Register(c)
			}

			err := registry.Dispatch(context.Background(), &eventbus.ConsumedEvent{RoutingKey: testRoutingKey})
			if tt.wantErr {
				assert.ErrorIs(t, err, failure)
			} else {
				assert.NoError(t, err)
			}
			for i, c := range tt.consumers {
				assert.Len(t, c.received(), tt.wantCalls[i])
			}
		})
	}
}

func TestConsumerRegistry_RoutingKeys(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(nil)
	registry.Register(&recordingConsumer{eventTypes: []string{"b.key", "a.key"}})
	registry.Register(&recordingConsumer{eventTypes: []string{"a.key"}})

	assert.Equal(t, []string{"a.key", "b.key"}, registry.RoutingKeys())
	assert.Len(t, registry.Consumers("a.key"), 2)
	assert.Empty(t, registry.Consumers("missing"))
}

func TestInProcessEventBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &recordingConsumer{eventTypes: []string{testRoutingKey}}
	bus.RegisterConsumer(consumer)

	body, err := eventbus.Encode(newSampleEvent())
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), testRoutingKey, body))
	require.Len(t, consumer.received(), 1)
	assert.Equal(t, "corr-7", consumer.received()[0].Metadata.CorrelationID)
}

func TestInProcessEventBus_SwallowsFailures(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	failing := &recordingConsumer{eventTypes: []string{testRoutingKey}, err: errors.New("boom")}
	bus.RegisterConsumer(failing)

	assert.NoError(t, bus.Publish(context.Background(), testRoutingKey, []byte(`{broken`)))
	assert.Empty(t, failing.received())

	body, err := eventbus.Encode(newSampleEvent())
	require.NoError(t, err)
	assert.NoError(t, bus.Publish(context.Background(), testRoutingKey, body))
	assert.Len(t, failing.received(), 1)
	assert.NoError(t, bus.Close())
}

func TestNoopPublisher(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), testRoutingKey, []byte(`{}`)))
	assert.NoError(t, p.Close())
}
