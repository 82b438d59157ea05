package main

import (
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tiff2png/logger"
)

var supportedFormats = map[string]bool{
	".tif":  true,
	".tiff": true,
}

const outputExt = ".png"

type Processor struct {
	Config  *Config
	Console *logger.Console
	Encoder png.Encoder
}

// RunStats holds the tally of a single run.
// Converted + Skipped + Failed always equals Total once Run returns.
type RunStats struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
}

func NewProcessor(cfg *Config, console *logger.Console) *Processor {
	return &Processor{
		Config:  cfg,
		Console: console,
		Encoder: newEncoder(),
	}
}

// Run converts every TIFF under the input root. The returned error is only
// non-nil for run-aborting problems; per-file failures are counted instead.
func (p *Processor) Run() (*RunStats, error) {
	if err := p.Config.validate(); err != nil {
		return nil, err
	}

	p.Console.Info("Processing directory: %s -> %s (skip existing: %t)",
		p.Config.InputPath, p.Config.OutputPath, p.Config.SkipExisting)

	root := walkRoot(p.Config.InputPath)

	files, err := p.collectFiles(root)
	if err != nil {
		return nil, fmt.Errorf("file collection error: %w", err)
	}

	stats := &RunStats{}
	if len(files) == 0 {
		p.Console.Warn("No TIFF files found in %s", p.Config.InputPath)
	}

	timer := p.Console.StartTimer("Conversion")
	bar := p.Console.NewProgressBar(int64(len(files)), "Converting images")

	for _, src := range files {
		p.processFile(root, src, stats)
		bar.Increment(1)
	}

	bar.Complete()
	elapsed := timer.End()

	p.displayResults(stats, elapsed)

	return stats, nil
}

func (p *Processor) processFile(root, src string, stats *RunStats) {
	stats.Total++

	dst, err := destinationPath(root, p.Config.OutputPath, src)
	if err != nil {
		stats.Failed++
		p.Console.Error("[FAIL] %s -> ? | %v", src, err)
		return
	}

	if p.Config.SkipExisting && isRegularFile(dst) {
		stats.Skipped++
		p.Console.Log("[SKIP] %s -> %s | output exists", src, dst)
		return
	}

	if err := p.convertOne(src, dst); err != nil {
		stats.Failed++
		p.Console.Error("[FAIL] %s -> %s | %v", src, dst, err)
		return
	}

	stats.Converted++
}

func (p *Processor) collectFiles(dirPath string) ([]string, error) {
	var filesToProcess []string

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dirPath {
				return err
			}
			p.Console.Warn("Skipping unreadable entry %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !supportedFormats[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if d.Type().IsRegular() || (d.Type()&fs.ModeSymlink != 0 && isRegularFile(path)) {
			filesToProcess = append(filesToProcess, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error while exploring directory: %w", err)
	}

	return filesToProcess, nil
}

// destinationPath mirrors src from inRoot into outRoot with a .png extension.
func destinationPath(inRoot, outRoot, src string) (string, error) {
	rel, err := filepath.Rel(inRoot, src)
	if err != nil {
		return "", fmt.Errorf("error resolving relative path: %w", err)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + outputExt
	return filepath.Join(outRoot, rel), nil
}

// walkRoot resolves a symlinked input root, which WalkDir would not descend.
func walkRoot(path string) string {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (p *Processor) displayResults(stats *RunStats, elapsed time.Duration) {
	banner := fmt.Sprintf("Version   : %s (built %s, commit %s)\nInput dir : %s\nOutput dir: %s",
		p.Config.Version, BuildDate, GitCommit,
		absPath(p.Config.InputPath), absPath(p.Config.OutputPath))
	p.Console.Box("TIFF -> PNG done", banner)

	table := p.Console.NewTable([]string{"Metric", "Value"})
	table.AddRow("Total TIFF", fmt.Sprintf("%d", stats.Total))
	table.AddRow("Converted", fmt.Sprintf("%d", stats.Converted))
	table.AddRow("Skipped", fmt.Sprintf("%d", stats.Skipped))
	table.AddRow("Failed", fmt.Sprintf("%d", stats.Failed))
	table.AddRow("Elapsed", elapsed.Round(time.Millisecond).String())

	p.Console.Info("Processing Summary:")
	table.Print()
}
