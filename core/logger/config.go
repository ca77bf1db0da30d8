package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the log encoding (json or console).
	Format string `mapstructure:"format" default:"json"`
	// File is an optional path for rotating file output. Empty disables it.
	File string `mapstructure:"file" default:""`
	// MaxSizeMB is the maximum size of the log file before rotation.
	MaxSizeMB int `mapstructure:"max_size_mb" default:"100"`
	// MaxBackups is the number of rotated files to retain.
	MaxBackups int `mapstructure:"max_backups" default:"5"`
	// MaxAgeDays is the maximum age of rotated files in days.
	MaxAgeDays int `mapstructure:"max_age_days" default:"30"`
}
