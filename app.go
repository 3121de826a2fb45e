// Package notedeck wires the note-taking core together: blob storage,
// repository, draft lifecycle, filtering, and the subscription surface the
// presentation layer consumes.
package notedeck

import (
	"sync"

	"notedeck/pkg/config"
	"notedeck/pkg/draft"
	"notedeck/pkg/export"
	"notedeck/pkg/filter"
	"notedeck/pkg/logger"
	"notedeck/pkg/models"
	"notedeck/pkg/repository"
	"notedeck/pkg/services"
	"notedeck/pkg/storage"
)

// Snapshot is what subscribers receive after every committed mutation: the
// full collection plus the subset visible under the active criteria.
type Snapshot struct {
	Notes   []models.Note
	Visible []models.Note
}

// Subscriber receives snapshots. Callbacks run synchronously on the
// mutating call; they must not invoke mutating operations re-entrantly.
type Subscriber func(Snapshot)

// App struct
type App struct {
	config      *config.Config
	log         *logger.Logger
	store       *storage.BlobStore
	repo        *repository.Repository
	noteService *services.NoteService
	drafts      *draft.Manager
	editor      *draft.Editor

	mutex       sync.Mutex
	criteria    filter.Criteria
	subscribers []Subscriber
}

// NewApp assembles the core from configuration. The repository is seeded
// from storage and an external-change watcher keeps it in sync if the data
// file is rewritten outside the app.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()
	log.SetLevelFromString(cfg.LogLevel)

	store, err := storage.NewBlobStore(cfg.DataPath, log)
	if err != nil {
		return nil, err
	}

	repo := repository.New(store, log)

	a := &App{
		config:      cfg,
		log:         log,
		store:       store,
		repo:        repo,
		noteService: services.NewNoteService(repo, log),
		drafts:      draft.NewManager(repo, cfg.DebounceWindow(), log),
		editor:      draft.NewEditor(repo, cfg.DebounceWindow(), log),
	}

	repo.Subscribe(a.onNotesChanged)
	store.Watch(repo.Reload)

	log.Infof("Notedeck initialized, data at %s", store.BlobPath())
	return a, nil
}

// Notes returns the full collection in display order.
func (a *App) Notes() []models.Note {
	return a.noteService.GetAllNotes()
}

// Visible returns the subset matching the active filter criteria.
func (a *App) Visible() []models.Note {
	a.mutex.Lock()
	criteria := a.criteria
	a.mutex.Unlock()
	return a.noteService.FilterNotes(criteria)
}

// Subscribe registers a presentation-layer listener and primes it with the
// current state.
func (a *App) Subscribe(sub Subscriber) {
	a.mutex.Lock()
	a.subscribers = append(a.subscribers, sub)
	a.mutex.Unlock()

	sub(a.snapshot(a.Notes()))
}

// SetCriteria replaces the active filter criteria and re-emits the snapshot.
func (a *App) SetCriteria(c filter.Criteria) {
	a.mutex.Lock()
	a.criteria = c
	a.mutex.Unlock()

	a.emit(a.snapshot(a.Notes()))
}

// Criteria returns the active filter criteria.
func (a *App) Criteria() filter.Criteria {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.criteria
}

func (a *App) onNotesChanged(notes []models.Note) {
	a.emit(a.snapshot(notes))
}

func (a *App) snapshot(notes []models.Note) Snapshot {
	a.mutex.Lock()
	criteria := a.criteria
	a.mutex.Unlock()

	return Snapshot{
		Notes:   notes,
		Visible: filter.Apply(notes, criteria),
	}
}

func (a *App) emit(snap Snapshot) {
	a.mutex.Lock()
	subscribers := make([]Subscriber, len(a.subscribers))
	copy(subscribers, a.subscribers)
	a.mutex.Unlock()

	for _, sub := range subscribers {
		sub(snap)
	}
}

// Service exposes the note operations for the presentation layer.
func (a *App) Service() *services.NoteService {
	return a.noteService
}

// Drafts exposes the creation-dialog lifecycle.
func (a *App) Drafts() *draft.Manager {
	return a.drafts
}

// Editor exposes the card-editor auto-save session.
func (a *App) Editor() *draft.Editor {
	return a.editor
}

// Backup archives the persisted blob into the configured backup directory.
func (a *App) Backup() (string, error) {
	return a.store.Backup(a.config.BackupPath)
}

// ExportHTML renders every note as a standalone HTML document under dir.
func (a *App) ExportHTML(dir string) ([]string, error) {
	return export.WriteNotes(a.Notes(), dir)
}

// Shutdown tears the core down: open sessions are closed (discarding any
// unsaved draft), pending timers cancelled, and the watcher released.
func (a *App) Shutdown() error {
	a.editor.Deselect()
	a.drafts.Close()
	return a.store.Close()
}
