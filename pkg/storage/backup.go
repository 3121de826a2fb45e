package storage

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Backup creates a zip archive of the persisted blob in backupDir and
// returns the archive path. The archive contains the raw blob so a restore
// is a plain copy back into the data directory.
func (s *BlobStore) Backup(backupDir string) (string, error) {
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102-1504")
	zipPath := filepath.Join(backupDir, "notes-backup-"+timestamp+".zip")

	if _, err := os.Stat(zipPath); err == nil {
		if err := os.Remove(zipPath); err != nil {
			return "", err
		}
	}

	zipFile, err := os.Create(zipPath)
	if err != nil {
		return "", err
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	src, err := os.Open(s.BlobPath())
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing persisted yet; an empty archive is still a valid backup.
			s.log.Infof("Backup requested before first save, archive is empty")
			return zipPath, nil
		}
		return "", err
	}
	defer src.Close()

	w, err := zipWriter.Create(BlobFilename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, src); err != nil {
		return "", err
	}

	s.log.Infof("Backup created at %s", zipPath)
	return zipPath, nil
}
