package main

import (
	"context"
	"log"

	"github.com/Apurer/it-literature-shop/internal/app/api"
)

func main() {
	if err := api.RunSeed(context.Background()); err != nil {
		log.Fatalf("seed: %v", err)
	}
}
