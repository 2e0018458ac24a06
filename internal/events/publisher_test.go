package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChannelEventPublisher_DeliversToSubscriber(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	publisher, pubSub := NewChannelEventPublisher(PublisherConfig{
		TopicName: "exam-events",
		Logger:    discardLogger(),
	})
	defer publisher.Close()

	messages, err := pubSub.Subscribe(ctx, "exam-events")
	require.NoError(t, err)

	exam := &models.Exam{ID: "e1", Title: "Algebra"}
	event := NewAttemptStartedEvent("tok-1", exam, "s1", 3, time.Now().UTC())
	require.NoError(t, publisher.PublishExamEvent(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventAttemptStarted), msg.Metadata.Get("event_type"))
		assert.Equal(t, "exam-service", msg.Metadata.Get("source"))

		var decoded struct {
			Type EventType           `json:"type"`
			Data AttemptStartedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventAttemptStarted, decoded.Type)
		assert.Equal(t, models.ExamID("e1"), decoded.Data.ExamID)
		assert.Equal(t, 3, decoded.Data.QuestionCount)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(discardLogger())
	sub := &models.Submission{ID: "sub-1", AttemptToken: "tok", StudentID: "s1", ExamID: "e1", Score: 2, TotalQuestions: 3}

	require.NoError(t, mock.PublishExamEvent(context.Background(), NewAttemptSubmittedEvent(sub)))

	published := mock.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, EventAttemptSubmitted, published[0].Type)
	data, ok := published[0].Data.(AttemptSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, 2, data.Score)
	assert.Equal(t, 3, data.TotalQuestions)

	mock.ClearEvents()
	assert.Empty(t, mock.GetPublishedEvents())
}

func TestGenerateEventID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateEventID(), GenerateEventID())
}
