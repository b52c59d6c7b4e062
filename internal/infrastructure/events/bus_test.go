package events

import (
	"context"
	"errors"
	"sort"
	"testing"

	"fleet-campus-admin/internal/domain/event"
	"fleet-campus-admin/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestBus_FansOutDespiteFailingSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	failing := mocks.NewMockPublisher(ctrl)
	healthy := mocks.NewMockPublisher(ctrl)

	e := event.New(event.TripStatusChanged, uuid.New(), map[string]interface{}{"to": "dispatched"})
	failing.EXPECT().Publish(gomock.Any(), e).Return(errors.New("broker down"))
	healthy.EXPECT().Publish(gomock.Any(), e).Return(nil)

	bus := NewBus()
	bus.Register("mqtt", failing)
	bus.Register("websocket", healthy)

	assert.NoError(t, bus.Publish(context.Background(), e))
}

func TestBus_RegisterReplacesByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockPublisher(ctrl)
	second := mocks.NewMockPublisher(ctrl)
	second.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	bus := NewBus()
	bus.Register("redis", first)
	bus.Register("redis", second)
	bus.Register("mqtt", discardSink{})

	names := bus.Sinks()
	sort.Strings(names)
	assert.Equal(t, []string{"mqtt", "redis"}, names)

	assert.NoError(t, bus.Publish(context.Background(), event.New(event.StudentRestored, uuid.New(), nil)))
}

type discardSink struct{}

func (discardSink) Publish(context.Context, event.Event) error { return nil }
