package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved report locations of one run.
// Relative locations are resolved against BaseDir.
type Paths struct {
	BaseDir      string
	OutputDir    string
	CSVDir       string
	WorkbookFile string
	SummaryFile  string
	ProfileFile  string
}

// GetPaths resolves the report paths for outputDir relative to the working directory
func GetPaths(outputDir string) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewPaths(wd, outputDir), nil
}

// NewPaths resolves the report paths for outputDir relative to baseDir
func NewPaths(baseDir, outputDir string) *Paths {
	out := ResolvePath(baseDir, outputDir)
	return &Paths{
		BaseDir:      baseDir,
		OutputDir:    out,
		CSVDir:       filepath.Join(out, CSVDirName),
		WorkbookFile: filepath.Join(out, WorkbookFileName),
		SummaryFile:  filepath.Join(out, SummaryFileName),
		ProfileFile:  filepath.Join(out, CSVDirName, ProfileFileName),
	}
}

// ResolvePath returns path unchanged when absolute, otherwise joined to baseDir
func ResolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// CSVPath returns the location of a per-analysis CSV file
func (p *Paths) CSVPath(name string) string {
	return filepath.Join(p.CSVDir, name+".csv")
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.CSVDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved report paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("csv_dir", p.CSVDir),
		slog.String("workbook", p.WorkbookFile),
		slog.String("summary", p.SummaryFile))
}
