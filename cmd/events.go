package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paibudget/budget-service/internal/events"
	sharedredis "github.com/paibudget/budget-service/internal/redis"
)

func eventsCmd() *cobra.Command {
	var group, consumer string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print transaction change events from the Redis stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cfg.Redis.Enabled() {
				return errors.New("events require REDIS_ADDR to be set")
			}
			ctx := cmd.Context()

			redis, err := sharedredis.NewClient(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer redis.Close()

			out := json.NewEncoder(cmd.OutOrStdout())
			subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
				Group:    group,
				Consumer: consumer,
				Handler: func(_ context.Context, event events.Event) error {
					return out.Encode(event)
				},
			})

			err = subscriber.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	host, _ := os.Hostname()
	cmd.Flags().StringVar(&group, "group", "budget-events", "consumer group name")
	cmd.Flags().StringVar(&consumer, "consumer", fmt.Sprintf("%s-%d", host, os.Getpid()), "consumer name within the group")
	return cmd
}
