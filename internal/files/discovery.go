package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	apperrors "sp500cli/internal/errors"
	"sp500cli/internal/validation"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates dataset files. Relative paths are resolved against basePath.
type Discovery struct {
	basePath  string
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		basePath:  basePath,
		validator: validation.NewFileValidator(logger),
		logger:    logger.With("component", "discovery"),
	}
}

// FindDatasets finds all dataset files (xlsx, xlsm, csv) in dir, oldest first.
// Excel lock files are skipped.
func (d *Discovery) FindDatasets(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !validation.IsSupportedDataset(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// ResolveDataset returns the dataset to analyse. A file path is validated and
// returned as is; a directory yields its most recently modified dataset.
// A missing path without an extension is reported as a missing directory.
func (d *Discovery) ResolveDataset(path string) (string, error) {
	fullPath := d.resolve(path)

	info, err := os.Stat(fullPath)
	isDir := err == nil && info.IsDir()
	if !isDir && !(os.IsNotExist(err) && filepath.Ext(fullPath) == "") {
		if err := d.validator.ValidateDataset(fullPath); err != nil {
			return "", err
		}
		return fullPath, nil
	}

	if err := d.validator.ValidateInputDirectory(fullPath); err != nil {
		return "", err
	}

	files, err := d.FindDatasets(fullPath)
	if err != nil {
		return "", apperrors.NewValidationError("failed to scan input directory", err).
			WithContext("path", fullPath)
	}
	latest, ok := GetLatestFile(files)
	if !ok {
		return "", apperrors.NewNotFoundError("dataset in "+fullPath).WithContext("path", fullPath)
	}

	d.logger.Info("Using latest dataset in directory",
		slog.String("directory", fullPath),
		slog.String("file", latest.Name),
		slog.Int("candidates", len(files)))

	if err := d.validator.ValidateDataset(latest.Path); err != nil {
		return "", err
	}
	return latest.Path, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}

func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) || d.basePath == "" {
		return path
	}
	return filepath.Join(d.basePath, path)
}
