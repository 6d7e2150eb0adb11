package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools",
	Long:  `Start and manage background worker pools such as notification delivery.`,
}

var notifyWorkerCmd = &cobra.Command{
	Use:   "notify",
	Short: "Start the notification delivery pool",
	Long:  `Start the notification pool with every configured provider and optionally push a test message through it.`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotifyWorker()
	},
}

var (
	maxWorkers    int
	jobQueueSize  int
	testRecipient string
	testEmail     string
)

func startNotifyWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := setupLogger(config)

	// Use command line flags if provided, otherwise use config values
	notifyConfig := config.Notification
	notifyConfig.Workers = getIntFlag(maxWorkers, notifyConfig.Workers)
	notifyConfig.QueueSize = getIntFlag(jobQueueSize, notifyConfig.QueueSize)
	// no http server here to host sockets
	notifyConfig.RealtimeEnabled = false

	logger.Info("starting notification worker",
		"max_workers", notifyConfig.Workers,
		"job_queue_size", notifyConfig.QueueSize,
		"webhook", notifyConfig.EmailWebhookURL != "",
		"kafka", notifyConfig.KafkaBrokers != "")

	n := buildNotifier(notifyConfig, logger)

	if testRecipient != "" {
		queued := n.Dispatcher.Enqueue(notification.Message{
			ID:          uuid.NewString(),
			EventType:   "notification.test",
			RecipientID: testRecipient,
			Email:       testEmail,
			Subject:     "Test notification",
			Body:        "This is a test message from the notification worker.",
			CreatedAt:   time.Now().UTC(),
		})
		logger.Info("test notification enqueued", "recipient_id", testRecipient, "queued", queued)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("notification worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	logger.Info("received signal, shutting down notification worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n.Close(ctx, logger)
	logger.Info("notification worker pool shutdown complete")
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	notifyWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	notifyWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	notifyWorkerCmd.Flags().StringVar(&testRecipient, "test-recipient", "", "Enqueue a test message for this user id")
	notifyWorkerCmd.Flags().StringVar(&testEmail, "test-email", "", "E-mail address for the test message")

	workerCmd.AddCommand(notifyWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
