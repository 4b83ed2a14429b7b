package main

import (
	"fmt"
	"os"
	"time"

	"eventify/pkg/auth"
	"eventify/pkg/config"
	"eventify/pkg/model"

	"github.com/spf13/pflag"
)

const JobName = "devtoken"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
	)

	flagSet := pflag.NewFlagSet(JobName, pflag.ContinueOnError)
	flagSet.StringVar(&userID, "user", "", "user id to put in the token subject (required)")
	flagSet.StringVar(&email, "email", "", "email claim")
	flagSet.StringVar(&role, "role", string(model.RoleParticipant), "role claim: admin or participant")
	flagSet.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	if !model.Role(role).IsValid() {
		return fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	cfg := config.Load(JobName)
	token, err := auth.Issue(cfg.JWTSecret, auth.Principal{
		UserID: userID,
		Email:  email,
		Role:   model.Role(role),
	}, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Println(token)
	return nil
}
