package main

import (
	"log"

	"camstation/internal/app"
)

func main() {
	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to start station: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Station stopped with error: %v", err)
	}
}
