package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gokatarajesh/quiz-desk/internal/cli"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	if err := cli.Execute(context.Background()); err != nil {
		log.Fatalf("quizdesk: %v", err)
	}
}
