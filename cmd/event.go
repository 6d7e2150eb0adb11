package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events on the in-process bus and inspect what handlers receive`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus for testing and debugging. leave.submitted and leave.status_changed produce typed leave events.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var eventData string

func sampleEvent(eventType string) events.Event {
	now := time.Now().UTC()
	switch eventType {
	case events.EventTypeLeaveSubmitted:
		return events.NewLeaveSubmittedEvent(uuid.NewString(), "cli-employee", eventData, "Annual Leave", 3, now.AddDate(0, 0, 10), now.AddDate(0, 0, 12))
	case events.EventTypeLeaveStatusChanged:
		return events.NewLeaveStatusChangedEvent(uuid.NewString(), "cli-employee", "Short Leave", "Pending", "Approved", "Approved", "cli", "Supervisor")
	}
	return events.BaseEvent{
		ID:        fmt.Sprintf("test-%d", now.Unix()),
		Type:      eventType,
		Timestamp: now,
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}
}

func publishTestEvent(eventType string) {
	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		logger.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	testEvent := sampleEvent(eventType)
	logger.Info("publishing test event", "event_type", eventType, "event_id", testEvent.EventID())

	if err := eventBus.Publish(context.Background(), testEvent); err != nil {
		logger.Error("failed to publish event", "error", err)
		return
	}

	eventBus.Wait()
	logger.Info("test event published successfully")
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
