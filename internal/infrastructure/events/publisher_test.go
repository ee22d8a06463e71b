package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
)

type mockJSONPublisher struct {
	mock.Mock
}

func (m *mockJSONPublisher) PublishJSON(ctx context.Context, msgType string, body any) error {
	args := m.Called(ctx, msgType, body)
	return args.Error(0)
}

func TestPublishUsesEventTypeAndDeadline(t *testing.T) {
	pub := new(mockJSONPublisher)
	e := entity.Event{ID: "e-1", Type: "harvest.created", Entity: "harvest", EntityID: "h-1", OccurredAt: time.Now()}

	pub.On("PublishJSON", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "harvest.created", e).Return(nil).Once()

	require.NoError(t, NewPublisher(pub).Publish(context.Background(), e))
	pub.AssertExpectations(t)
}

func TestPublishReturnsBrokerError(t *testing.T) {
	pub := new(mockJSONPublisher)
	pub.On("PublishJSON", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := NewPublisher(pub).Publish(context.Background(), entity.Event{Type: "crop.created"})
	assert.ErrorIs(t, err, assert.AnError)
}
