package main

import (
	"os"
	"path/filepath"
)

// Config is the indexer's runtime configuration: where the range index's
// bbolt files live, which chain they track, where to read blocks from, and
// whether to maintain the optional sat-to-outpoint reverse index.
type Config struct {
	DataDir    string `json:"data_dir"`
	ChainIDHex string `json:"chain_id_hex"`
	BlocksDir  string `json:"blocks_dir"`
	IndexSats  bool   `json:"index_sats"`
	LogLevel   string `json:"log_level"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".satrune"
	}
	return filepath.Join(home, ".satrune")
}

func DefaultConfig() Config {
	dataDir := DefaultDataDir()
	return Config{
		DataDir:    dataDir,
		ChainIDHex: "00",
		BlocksDir:  filepath.Join(dataDir, "blocks"),
		IndexSats:  false,
		LogLevel:   "info",
	}
}

func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return errConfig("data_dir must not be empty")
	}
	if cfg.ChainIDHex == "" {
		return errConfig("chain_id_hex must not be empty")
	}
	if cfg.BlocksDir == "" {
		return errConfig("blocks_dir must not be empty")
	}
	if _, ok := allowedLogLevels[cfg.LogLevel]; !ok {
		return errConfig("log_level must be one of debug|info|warn|error")
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

func errConfig(msg string) error { return configError(msg) }
