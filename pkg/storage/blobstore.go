package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"notedeck/pkg/errors"
	"notedeck/pkg/logger"
	"notedeck/pkg/models"
)

// BlobFilename is the fixed storage key: the full note collection lives in a
// single JSON array under this name in the data directory.
const BlobFilename = "notes.json"

// BlobStore persists the complete note collection as one serialized blob.
// It is the only durable storage the application has; the repository is its
// sole writer.
type BlobStore struct {
	dataDir     string
	mutex       sync.Mutex
	watcher     *fsnotify.Watcher
	watchDone   chan struct{}
	lastModTime time.Time
	log         *logger.Logger
}

// NewBlobStore creates a blob store rooted at dataDir, creating the
// directory when missing.
func NewBlobStore(dataDir string, log *logger.Logger) (*BlobStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeStorage, "DATA_DIR_CREATE_FAILED",
			"failed to create data directory")
	}

	store := &BlobStore{
		dataDir: dataDir,
		log:     log,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnf("Could not create file watcher: %v", err)
	} else {
		store.watcher = watcher
		if err := watcher.Add(dataDir); err != nil {
			log.Warnf("Could not watch data directory: %v", err)
		}
	}

	return store, nil
}

// BlobPath returns the absolute path of the persisted collection.
func (s *BlobStore) BlobPath() string {
	return filepath.Join(s.dataDir, BlobFilename)
}

// Load reads the persisted collection. A missing blob yields an empty
// collection. A corrupt blob is quarantined next to the original and also
// yields an empty collection; startup must never fail on bad data.
func (s *BlobStore) Load() []models.Note {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := os.ReadFile(s.BlobPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("Could not read %s: %v", s.BlobPath(), err)
		}
		return []models.Note{}
	}

	var notes []models.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		s.log.Warnf("Persisted notes are malformed, starting empty: %v", err)
		s.quarantine(data)
		return []models.Note{}
	}
	if notes == nil {
		notes = []models.Note{}
	}

	return notes
}

// quarantine moves an unreadable blob aside so the next save does not
// silently destroy whatever the user had. Must be called with the mutex held.
func (s *BlobStore) quarantine(data []byte) {
	quarantinePath := s.BlobPath() + ".corrupt-" + time.Now().Format("20060102-150405")
	if err := os.WriteFile(quarantinePath, data, 0644); err != nil {
		s.log.Warnf("Could not quarantine corrupt blob: %v", err)
		return
	}
	s.log.Infof("Quarantined corrupt blob at %s", quarantinePath)
}

// Save replaces the persisted collection with the given one. The write is
// staged to a temp file and renamed so readers never observe a partial blob.
func (s *BlobStore) Save(notes []models.Note) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if notes == nil {
		notes = []models.Note{}
	}

	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeData, "MARSHAL_FAILED",
			"failed to serialize notes")
	}

	tmpPath := s.BlobPath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrTypeStorage, "STORAGE_UNAVAILABLE",
			"failed to write notes").
			WithUserMessage(errors.ErrStorageUnavailable.GetUserMessage())
	}
	if err := os.Rename(tmpPath, s.BlobPath()); err != nil {
		return errors.Wrap(err, errors.ErrTypeStorage, "STORAGE_UNAVAILABLE",
			"failed to replace notes").
			WithUserMessage(errors.ErrStorageUnavailable.GetUserMessage())
	}

	// Track our own write so the watcher can tell it apart from external ones.
	if fileInfo, err := os.Stat(s.BlobPath()); err == nil {
		s.lastModTime = fileInfo.ModTime()
	}

	return nil
}

// Watch invokes onChange whenever the blob is rewritten by something other
// than this store. The callback runs on the watcher goroutine.
func (s *BlobStore) Watch(onChange func()) {
	if s.watcher == nil || s.watchDone != nil {
		return
	}
	s.watchDone = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-s.watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != BlobFilename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if s.isOwnWrite() {
					continue
				}
				s.log.Infof("Notes changed externally, reloading")
				onChange()

			case err, ok := <-s.watcher.Errors:
				if !ok {
					return
				}
				s.log.Warnf("Watcher error: %v", err)

			case <-s.watchDone:
				return
			}
		}
	}()
}

func (s *BlobStore) isOwnWrite() bool {
	fileInfo, err := os.Stat(s.BlobPath())
	if err != nil {
		return false
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	return !fileInfo.ModTime().After(s.lastModTime)
}

// Close cleans up the file watcher
func (s *BlobStore) Close() error {
	if s.watchDone != nil {
		close(s.watchDone)
		s.watchDone = nil
	}
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
