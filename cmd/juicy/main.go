package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/cli"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	os.Exit(cli.Run(os.Args[1:], logger))
}
