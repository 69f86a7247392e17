package config

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"

	"dispatch-service/src/pkg/log"
)

func asynqRedisOpt(v *viper.Viper) asynq.RedisClientOpt {
	host := v.GetString("redis.host")
	if host == "" {
		host = "127.0.0.1"
	}

	port := v.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}

	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func NewAsynqClient(v *viper.Viper) *asynq.Client {
	return asynq.NewClient(asynqRedisOpt(v))
}

func NewAsynqServer(v *viper.Viper) (*asynq.Server, *asynq.ServeMux) {
	server := asynq.NewServer(asynqRedisOpt(v), asynq.Config{
		Concurrency: v.GetInt("asynq.concurrency"),
	})
	return server, asynq.NewServeMux()
}

// NewAsynqScheduler registers the weekly payout cadence:
// open payouts Sunday midnight, remind Thursday through Saturday,
// and run the grace-deadline block early Tuesday.
func NewAsynqScheduler(v *viper.Viper, logger log.Log, taskGenerate, taskRemind, taskBlock string) *asynq.Scheduler {
	scheduler := asynq.NewScheduler(asynqRedisOpt(v), &asynq.SchedulerOpts{})

	entries := map[string]string{
		taskGenerate: "0 0 * * 0",
		taskRemind:   "0 9 * * 4,5,6",
		taskBlock:    "5 0 * * 2",
	}
	for task, spec := range entries {
		// unique window keeps a slow run from stacking a duplicate
		if _, err := scheduler.Register(spec, asynq.NewTask(task, nil), asynq.Unique(time.Hour)); err != nil {
			logger.Error("asynq-config", fmt.Sprintf("failed to register %s: %v", task, err), "scheduler", spec)
		}
	}

	return scheduler
}
