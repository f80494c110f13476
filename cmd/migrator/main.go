package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gokatarajesh/quiz-desk/internal/cli"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, or status")
		dir     = flag.String("dir", "", "Directory containing migration files (embedded set when empty)")
	)
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	cmd := cli.NewMigrateCmd()
	args := []string{*command}
	if *dir != "" {
		args = append(args, "--dir", *dir)
	}
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("migrator: %v", err)
	}
}
