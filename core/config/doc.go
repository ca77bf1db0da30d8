// Package config provides configuration management for filestore.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file (godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Storage: S3/MinIO credentials, bucket and presigned URL settings
//   - Log: Logging level, format and file rotation
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
