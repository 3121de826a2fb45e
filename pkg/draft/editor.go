package draft

import (
	"strings"
	"sync"
	"time"

	"notedeck/pkg/debounce"
	"notedeck/pkg/logger"
	"notedeck/pkg/models"
	"notedeck/pkg/repository"
)

const editorKey = "editor-session"

// Editor is the auto-save path for an existing note opened in the card
// editor. Field changes are written on the same trailing-edge debounce as
// drafts; deselecting the note cancels the pending callback and flushes a
// final write when the fields actually changed. Dirtiness is an explicit
// flag set on mutation, not a serialized comparison.
//
// A finalized note never persists with a trim-empty title: while the title
// is cleared the write is held, and the note keeps its last synced title
// until the user types one back in.
type Editor struct {
	mutex     sync.Mutex
	repo      *repository.Repository
	debouncer *debounce.Debouncer
	log       *logger.Logger

	session uint64
	noteID  string
	fields  models.DraftFields
	dirty   bool
}

// NewEditor creates an editor writing through repo after the given quiet
// window.
func NewEditor(repo *repository.Repository, window time.Duration, log *logger.Logger) *Editor {
	return &Editor{
		repo:      repo,
		debouncer: debounce.New(window),
		log:       log,
	}
}

// Select opens the note with the given id for editing, replacing any
// previous selection. The previous selection's pending write is flushed
// first so no edit is lost.
func (e *Editor) Select(id string) (models.Note, error) {
	e.Deselect()

	note, err := e.repo.Get(id)
	if err != nil {
		return models.Note{}, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.session++
	e.noteID = note.ID
	e.fields = models.DraftFields{
		Title:   note.Title,
		Content: note.Content,
		Color:   note.Color,
		Tags:    note.Tags,
		Items:   note.Items,
	}
	e.dirty = false
	return note, nil
}

// Selected returns the id of the note under edit, or "".
func (e *Editor) Selected() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.noteID
}

// SetFields records an edit and schedules the debounced write-back.
func (e *Editor) SetFields(fields models.DraftFields) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.noteID == "" {
		return
	}
	e.fields = fields
	e.dirty = true

	seq := e.session
	e.debouncer.Schedule(editorKey, func() {
		e.sync(seq)
	})
}

// sync pushes the current fields into the repository. A trim-empty title
// holds the write: the note keeps its last synced title and stays dirty so
// a restored title flushes again. The mutex is released before the
// repository call so observers can read the editor back during
// notification.
func (e *Editor) sync(seq uint64) {
	e.mutex.Lock()
	if seq != e.session || e.noteID == "" || !e.dirty {
		e.mutex.Unlock()
		return
	}
	if strings.TrimSpace(e.fields.Title) == "" {
		e.mutex.Unlock()
		return
	}
	note := e.noteFromFields()
	e.mutex.Unlock()

	if _, err := e.repo.Update(note); err != nil {
		// The note can vanish mid-edit (deleted from another card); benign.
		e.log.Debugf("Editor sync skipped for %s: %v", note.ID, err)
		return
	}

	e.mutex.Lock()
	if seq == e.session {
		e.dirty = false
	}
	e.mutex.Unlock()
}

// Deselect closes the editing session. The pending debounce callback is
// cancelled before anything else; unsaved changes are written synchronously
// so deselection never drops the final keystrokes. An edit whose title is
// still trim-empty is discarded rather than flushed.
func (e *Editor) Deselect() {
	e.mutex.Lock()
	if e.noteID == "" {
		e.mutex.Unlock()
		return
	}

	e.debouncer.Cancel(editorKey)
	flush := e.dirty && strings.TrimSpace(e.fields.Title) != ""
	var note models.Note
	if flush {
		note = e.noteFromFields()
	}
	e.session++
	e.noteID = ""
	e.dirty = false
	e.mutex.Unlock()

	if !flush {
		return
	}
	if _, err := e.repo.Update(note); err != nil {
		e.log.Debugf("Editor flush skipped for %s: %v", note.ID, err)
	}
}

// noteFromFields builds the write-back payload. Must be called with the
// mutex held.
func (e *Editor) noteFromFields() models.Note {
	return models.Note{
		ID:      e.noteID,
		Title:   e.fields.Title,
		Content: e.fields.Content,
		Color:   e.fields.Color,
		Tags:    e.fields.Tags,
		Items:   e.fields.Items,
	}
}
