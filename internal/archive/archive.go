// Package archive moves the audio of a previous run out of the way so a new
// run never overwrites it.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/imgspeak/internal/log"
)

// ArchiveOutput moves outputFile into an "archive" directory next to it,
// adding a timestamp to the name. It returns the new path, or "" when there
// was nothing to archive.
func ArchiveOutput(outputFile string) (string, error) {
	info, err := os.Stat(outputFile)
	if os.IsNotExist(err) {
		log.Debugf("Nothing to archive, %s does not exist", outputFile)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat output file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("output path is a directory: %s", outputFile)
	}

	// Get parent directory and create archive path
	archiveDir := filepath.Join(filepath.Dir(outputFile), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(outputFile)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, time.Now().Format("20060102-150405"), ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, time.Now().Format("20060102-150405.000000"), ext))
	}

	if err := os.Rename(outputFile, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output file: %w", err)
	}

	log.Infof("Previous output archived to: %s", archivePath)
	return archivePath, nil
}
