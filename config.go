package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultInputPath  = "public/patterns"
	defaultOutputPath = "public/patterns_png"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var (
	ErrInputNotFound = errors.New("input dir not found")
	ErrInputNotDir   = errors.New("input path is not a directory")
)

type Config struct {
	InputPath    string
	OutputPath   string
	SkipExisting bool
	Version      string
}

func DefaultConfig() *Config {
	return &Config{
		InputPath:    defaultInputPath,
		OutputPath:   defaultOutputPath,
		SkipExisting: true,
		Version:      Version,
	}
}

// validate only inspects the input root; the output root is created lazily.
func (cfg *Config) validate() error {
	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, absPath(cfg.InputPath))
		}
		return fmt.Errorf("error checking input dir %s: %w", absPath(cfg.InputPath), err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputNotDir, absPath(cfg.InputPath))
	}
	return nil
}

// absPath resolves path to an absolute path with symlinks evaluated. Missing
// paths fall back to the unresolved absolute form.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
