package main

import (
	"os"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/server"
)

// @title PCA Primary Server API
// @version 1.0
// @description Timesheet, student care and reporting API for the PCA school office

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, with or without the Bearer prefix

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until SIGINT/SIGTERM or a listen failure
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
