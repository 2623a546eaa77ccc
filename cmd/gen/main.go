package main

import (
	"SecurityAlert/internal/repository"
	"SecurityAlert/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
