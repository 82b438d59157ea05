package main

import (
	"tiff2png/logger"
)

func main() {
	console := logger.NewConsole(logger.DefaultOptions())

	processor := NewProcessor(DefaultConfig(), console)

	stats, err := processor.Run()
	if err != nil {
		console.Fatal("%v", err)
	}

	console.Success("Run finished: %d converted, %d skipped, %d failed",
		stats.Converted, stats.Skipped, stats.Failed)
}
