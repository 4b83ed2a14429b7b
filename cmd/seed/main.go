package main

import (
	"context"
	"os"
	"time"

	usersrepository "eventify/internal/users/repository"
	"eventify/internal/users/seed"
	"eventify/pkg/config"

	"github.com/spf13/pflag"
)

const JobName = "seed"

func main() {
	var timeout time.Duration
	flagSet := pflag.NewFlagSet(JobName, pflag.ExitOnError)
	flagSet.DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the seed")
	_ = flagSet.Parse(os.Args[1:])

	cfg := config.Load(JobName)
	cfg.SetMongo()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	result := seed.EnsureAdmin(ctx, usersrepository.NewMongoUserRepository(cfg), cfg)
	cancel()
	cfg.GracefulShutdown()

	if result == seed.ResultFailed {
		cfg.Log.Fatal("Admin seed failed")
	}
	cfg.Log.Info("Admin seed finished", "result", result)
}
