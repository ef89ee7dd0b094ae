package main

import (
	"log"

	"github.com/SstealzZ/LinkStart/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkstart failed to start: %v", err)
	}
}
