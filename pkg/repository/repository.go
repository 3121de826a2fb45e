package repository

import (
	"sync"
	"time"

	"notedeck/pkg/errors"
	"notedeck/pkg/logger"
	"notedeck/pkg/models"
	"notedeck/pkg/utils"
)

// Store is the persistence contract the repository writes through. The blob
// store satisfies it; tests substitute failing implementations.
type Store interface {
	Load() []models.Note
	Save(notes []models.Note) error
}

// Observer receives a snapshot of the full collection after every committed
// mutation.
type Observer func(notes []models.Note)

// Repository is the sole authority reconciling in-memory note state with
// durable storage. Every operation is atomic at the level of one full
// collection replace: the in-memory mirror only advances when the persist
// succeeds, so storage and memory never drift.
type Repository struct {
	store     Store
	mutex     sync.Mutex
	notes     []models.Note
	observers []Observer
	log       *logger.Logger
}

// New constructs a repository seeded from the store.
func New(store Store, log *logger.Logger) *Repository {
	return &Repository{
		store: store,
		notes: store.Load(),
		log:   log,
	}
}

// Subscribe registers an observer. Observers are invoked synchronously, in
// registration order, after each committed mutation.
func (r *Repository) Subscribe(obs Observer) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.observers = append(r.observers, obs)
}

// Notes returns a snapshot copy of the current collection in display order.
func (r *Repository) Notes() []models.Note {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return models.CloneNotes(r.notes)
}

// Len returns the number of notes in the collection.
func (r *Repository) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.notes)
}

// Get returns the note with the given id.
func (r *Repository) Get(id string) (models.Note, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if idx := indexOf(r.notes, id); idx != -1 {
		return r.notes[idx].Clone(), nil
	}
	return models.Note{}, errors.ErrNoteNotFound.WithContext("noteId", id)
}

// Create assigns a fresh id and timestamps, appends the note at the end of
// the collection and persists. The created note is returned.
func (r *Repository) Create(fields models.DraftFields) (models.Note, error) {
	r.mutex.Lock()

	now := time.Now()
	color := fields.Color
	if color == "" {
		color = models.DefaultColor()
	}

	note := models.Note{
		ID:        utils.NewNoteID(),
		Title:     fields.Title,
		Content:   fields.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Color:     color,
		Tags:      models.NormalizeTags(fields.Tags),
		Items:     assignItemIDs(fields.Items),
	}

	next := append(models.CloneNotes(r.notes), note)
	if err := r.commit(next); err != nil {
		r.mutex.Unlock()
		return models.Note{}, err
	}
	observers, snapshot := r.observers, models.CloneNotes(next)
	r.mutex.Unlock()

	r.log.Infof("Note created: %s", note.ID)
	notify(observers, snapshot)
	return note.Clone(), nil
}

// Update replaces the note with a matching id, refreshing updatedAt. The
// note's position and createdAt are preserved. A missing id yields
// ErrNoteNotFound, which callers treat as benign.
func (r *Repository) Update(note models.Note) (models.Note, error) {
	r.mutex.Lock()

	idx := indexOf(r.notes, note.ID)
	if idx == -1 {
		r.mutex.Unlock()
		return models.Note{}, errors.ErrNoteNotFound.WithContext("noteId", note.ID)
	}

	existing := r.notes[idx]
	updated := note.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.Tags = models.NormalizeTags(updated.Tags)
	updated.Items = assignItemIDs(updated.Items)
	updated.UpdatedAt = time.Now()
	if updated.UpdatedAt.Before(existing.UpdatedAt) {
		// updatedAt is monotonically non-decreasing even if the clock steps back.
		updated.UpdatedAt = existing.UpdatedAt
	}
	if updated.Color == "" {
		updated.Color = existing.Color
	}

	next := models.CloneNotes(r.notes)
	next[idx] = updated
	if err := r.commit(next); err != nil {
		r.mutex.Unlock()
		return models.Note{}, err
	}
	observers, snapshot := r.observers, models.CloneNotes(next)
	r.mutex.Unlock()

	notify(observers, snapshot)
	return updated.Clone(), nil
}

// Delete removes the note with a matching id. A missing id is a no-op; the
// UI and repository can race benignly on double deletes.
func (r *Repository) Delete(id string) error {
	r.mutex.Lock()

	idx := indexOf(r.notes, id)
	if idx == -1 {
		r.mutex.Unlock()
		r.log.Debugf("Delete of unknown note %s ignored", id)
		return nil
	}

	next := models.CloneNotes(r.notes)
	next = append(next[:idx], next[idx+1:]...)
	if err := r.commit(next); err != nil {
		r.mutex.Unlock()
		return err
	}
	observers, snapshot := r.observers, models.CloneNotes(next)
	r.mutex.Unlock()

	r.log.Infof("Note deleted: %s", id)
	notify(observers, snapshot)
	return nil
}

// Reorder removes the element at from and reinserts it at to, shifting
// intervening notes. Both indices are validated before any mutation;
// out-of-range indices are an error, never a clamp.
func (r *Repository) Reorder(from, to int) error {
	r.mutex.Lock()

	validator := errors.NewValidator()
	if result := validator.ValidateReorder(from, to, len(r.notes)); !result.IsValid {
		r.mutex.Unlock()
		return result.GetFirstError()
	}
	if from == to {
		r.mutex.Unlock()
		return nil
	}

	next := models.CloneNotes(r.notes)
	moved := next[from]
	next = append(next[:from], next[from+1:]...)
	next = append(next[:to], append([]models.Note{moved}, next[to:]...)...)

	if err := r.commit(next); err != nil {
		r.mutex.Unlock()
		return err
	}
	observers, snapshot := r.observers, models.CloneNotes(next)
	r.mutex.Unlock()

	notify(observers, snapshot)
	return nil
}

// Reload replaces the in-memory mirror with the persisted collection. Used
// when the blob changes underneath us (external edit of the data file).
func (r *Repository) Reload() {
	r.mutex.Lock()
	r.notes = r.store.Load()
	observers, snapshot := r.observers, models.CloneNotes(r.notes)
	r.mutex.Unlock()

	notify(observers, snapshot)
}

// commit persists the candidate collection and, only on success, makes it
// the current one. On failure the previous state stays in force and the
// error is surfaced to the caller; the persisted blob remains the last
// successful write. Must be called with the mutex held.
func (r *Repository) commit(next []models.Note) error {
	if err := r.store.Save(next); err != nil {
		r.log.Errorf("Persist failed, operation abandoned: %v", err)
		return err
	}
	r.notes = next
	return nil
}

// notify runs outside the repository lock so observers can call back in
// for reads.
func notify(observers []Observer, snapshot []models.Note) {
	for _, obs := range observers {
		obs(models.CloneNotes(snapshot))
	}
}

// assignItemIDs mints ids for checklist items the dialog sent without one.
// Item ids only need to be unique within the owning note.
func assignItemIDs(items []models.ChecklistItem) []models.ChecklistItem {
	out := make([]models.ChecklistItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = utils.NewItemID()
		}
	}
	return out
}

func indexOf(notes []models.Note, id string) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
