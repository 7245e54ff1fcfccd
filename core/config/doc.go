// Package config provides configuration management for stationwatch.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Provider: bike-share data source (kind, endpoints, network, timeout)
//   - Database: SQLite path or MySQL connection details
//   - Archive: S3/MinIO credentials for the raw snapshot archive
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Path)
package config
