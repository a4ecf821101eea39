package main

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"

	tokensync "launchcontrol/internal/sync"
	"launchcontrol/pkg/config"
	"launchcontrol/pkg/dbc"
	"launchcontrol/pkg/jupiter"
)

// Every 5 minutes, on the minute.
const syncSchedule = "0 */5 * * * *"

const syncRunTimeout = 4 * time.Minute

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	syncer := &tokensync.Syncer{
		DB:     config.DB,
		Prices: jupiter.NewClient(os.Getenv("JUPITER_API_URL")),
		Fees:   dbc.NewAPIClient(""),
	}

	runSync := func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
		defer cancel()

		result, err := syncer.Run(ctx)
		if err != nil {
			logrus.Errorf("Sync run failed: %v", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"updated_count":     result.UpdatedCount,
			"fee_updated_count": result.FeeUpdatedCount,
			"total_tokens":      result.TotalTokens,
		}).Info("Sync run completed")
	}

	// One pass right away so fresh deployments do not wait for the first
	// scheduled tick.
	runSync()

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(syncSchedule, runSync); err != nil {
		logrus.Fatal("Failed to schedule sync job: ", err)
	}
	c.Start()
	logrus.Infof("Sync scheduler started (%s)", syncSchedule)

	// Without RabbitMQ the worker still runs the scheduled sync; it just
	// loses the immediate per-launch refresh.
	if os.Getenv("RABBITMQ_HOST") == "" {
		logrus.Info("RabbitMQ not configured, running scheduler only")
		select {}
	}

	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	msgConsumer, err := config.NewConsumer(config.LaunchEventsQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Launch events worker started, waiting for messages...")

	err = msgConsumer.Consume(tokensync.LaunchEventHandler(syncer, time.Minute))
	if err != nil {
		logrus.Fatal("Failed to start consumer: ", err)
	}
}
