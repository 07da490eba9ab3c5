// Package config loads the retriever configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/teemow/driveretriever/internal/drive"
)

// Environment variables read by FromEnv.
const (
	EnvTokenFile  = "GOOGLE_TOKEN_FILE"
	EnvFolderID   = "DRIVE_FOLDER_ID"
	EnvNumResults = "DRIVE_NUM_RESULTS"
	EnvChunkSize  = "DRIVE_CHUNK_SIZE"
	EnvLogJSON    = "LOG_JSON"
	EnvDebug      = "DEBUG"
)

// Defaults applied when the environment leaves a setting unset.
const (
	DefaultTokenPath  = "token.json"
	DefaultNumResults = 10
)

// Config holds the retriever settings.
type Config struct {
	// TokenPath is the stored OAuth credential (authorized-user JSON)
	TokenPath string

	// FolderID is the Drive folder to search; "root" is the top level
	FolderID string

	// NumResults is the maximum number of files per invocation
	NumResults int

	// ChunkSize is the size of each ranged download request in bytes; 0 uses the client default
	ChunkSize int64

	// LogJSON switches logging to the JSON handler
	LogJSON bool

	// Debug enables debug logging
	Debug bool
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		TokenPath:  DefaultTokenPath,
		FolderID:   drive.RootFolderID,
		NumResults: DefaultNumResults,
	}
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables that are already set. With no arguments it
// reads ./.env. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the given .env files (./.env by default) and then the
// environment.
func Load(envFiles ...string) (*Config, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvTokenFile); v != "" {
		cfg.TokenPath = v
	}
	if v := os.Getenv(EnvFolderID); v != "" {
		cfg.FolderID = v
	}

	var err error
	if cfg.NumResults, err = intFromEnv(EnvNumResults, cfg.NumResults); err != nil {
		return nil, err
	}
	chunkSize, err := intFromEnv(EnvChunkSize, 0)
	if err != nil {
		return nil, err
	}
	cfg.ChunkSize = int64(chunkSize)

	if cfg.LogJSON, err = boolFromEnv(EnvLogJSON); err != nil {
		return nil, err
	}
	if cfg.Debug, err = boolFromEnv(EnvDebug); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration can be used to build a retriever.
func (c *Config) Validate() error {
	if c.TokenPath == "" {
		return fmt.Errorf("token path is required (set %s)", EnvTokenFile)
	}
	if c.FolderID == "" {
		return fmt.Errorf("folder id is required (set %s)", EnvFolderID)
	}
	if c.NumResults < 1 || c.NumResults > drive.MaxPageSize {
		return fmt.Errorf("number of results must be between 1 and %d, got %d", drive.MaxPageSize, c.NumResults)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size must not be negative, got %d", c.ChunkSize)
	}
	return nil
}

func intFromEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func boolFromEnv(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
