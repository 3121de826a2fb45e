package draft

import (
	"strings"
	"sync"
	"time"

	"notedeck/pkg/debounce"
	"notedeck/pkg/errors"
	"notedeck/pkg/logger"
	"notedeck/pkg/models"
	"notedeck/pkg/repository"
)

// State is the creation-dialog session state.
type State string

const (
	// StateClosed means no dialog session is active.
	StateClosed State = "closed"
	// StateEmpty means the dialog is open but no draft has been created yet.
	StateEmpty State = "empty"
	// StateDrafting means a provisional note exists in the repository.
	StateDrafting State = "drafting"
)

const draftKey = "draft-session"

// Manager governs the note-under-composition state machine:
//
//	Closed → Empty → Drafting → {Saved | Discarded} → Closed
//
// A provisional note is created the first time the title becomes non-empty,
// kept in sync with the repository on a debounce timer, promoted on explicit
// save, and deleted on dialog dismissal. The manager must survive rapid
// open/close cycles and debounce races without leaving a half-written note
// in storage.
//
// Repository calls are made with the manager mutex released, so observers
// notified by a commit can read the manager back without deadlocking.
type Manager struct {
	mutex     sync.Mutex
	repo      *repository.Repository
	debouncer *debounce.Debouncer
	log       *logger.Logger

	// session increments on every Open and close path; scheduled callbacks
	// capture the value they were created under and refuse to run against a
	// newer session. This closes the race where a late timer resurrects a
	// draft that cleanup already deleted.
	session uint64
	open    bool
	draftID string
	fields  models.DraftFields
}

// NewManager creates a draft manager writing through repo, syncing after
// the given quiet window.
func NewManager(repo *repository.Repository, window time.Duration, log *logger.Logger) *Manager {
	return &Manager{
		repo:      repo,
		debouncer: debounce.New(window),
		log:       log,
	}
}

// Open starts a creation-dialog session. An already-open session is
// discarded first, so rapid open/close cycles cannot stack state.
func (m *Manager) Open() {
	m.Close()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.session++
	m.open = true
	m.draftID = ""
	m.fields = models.DraftFields{}
}

// State reports the current session state.
func (m *Manager) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch {
	case !m.open:
		return StateClosed
	case m.draftID == "":
		return StateEmpty
	default:
		return StateDrafting
	}
}

// DraftID returns the provisional note id, or "" before one exists.
func (m *Manager) DraftID() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.draftID
}

// SetFields records the latest in-progress field values. The first time the
// trimmed title is non-empty a provisional note is created immediately;
// afterwards every change schedules a debounced repository update carrying
// whatever the fields settle to, including a title edited back to empty.
// The provisional row is only removed by Close, never by an in-flight edit.
func (m *Manager) SetFields(fields models.DraftFields) {
	m.mutex.Lock()

	if !m.open {
		m.mutex.Unlock()
		return
	}
	m.fields = fields

	if m.draftID != "" {
		seq := m.session
		m.debouncer.Schedule(draftKey, func() {
			m.sync(seq)
		})
		m.mutex.Unlock()
		return
	}

	if strings.TrimSpace(fields.Title) == "" {
		m.mutex.Unlock()
		return
	}

	seq := m.session
	m.mutex.Unlock()

	note, err := m.repo.Create(fields)
	if err != nil {
		m.log.Errorf("Draft create failed: %v", err)
		return
	}

	m.mutex.Lock()
	if seq != m.session || !m.open {
		m.mutex.Unlock()
		// The dialog closed while the create was in flight; remove the
		// orphan instead of adopting it.
		if derr := m.repo.Delete(note.ID); derr != nil {
			m.log.Errorf("Draft cleanup failed for %s: %v", note.ID, derr)
		}
		return
	}
	m.draftID = note.ID
	m.mutex.Unlock()
	m.log.Debugf("Draft created: %s", note.ID)
}

// sync pushes the latest fields into the repository. Stale callbacks from a
// previous session are dropped.
func (m *Manager) sync(seq uint64) {
	m.mutex.Lock()
	if seq != m.session || !m.open || m.draftID == "" {
		m.mutex.Unlock()
		return
	}
	note := m.noteFromFields()
	m.mutex.Unlock()

	if _, err := m.repo.Update(note); err != nil {
		// The draft may have been deleted out from under us; benign.
		m.log.Debugf("Draft sync skipped: %v", err)
	}
}

// Save promotes the draft into a permanent note under the SAME id; no new
// id is minted. Without a draft (dialog never left Empty) the note is
// created directly. The title must be non-empty.
func (m *Manager) Save() (models.Note, error) {
	m.mutex.Lock()

	if !m.open {
		m.mutex.Unlock()
		return models.Note{}, errors.New(errors.ErrTypeApp, "NO_SESSION", "no draft session is open")
	}
	if strings.TrimSpace(m.fields.Title) == "" {
		m.mutex.Unlock()
		return models.Note{}, errors.ErrEmptyTitle
	}

	m.debouncer.Cancel(draftKey)
	draftID := m.draftID
	fields := m.fields
	note := m.noteFromFields()
	m.mutex.Unlock()

	var saved models.Note
	var err error
	if draftID == "" {
		saved, err = m.repo.Create(fields)
	} else {
		saved, err = m.repo.Update(note)
	}
	if err != nil {
		// Leave the session open so the user can retry or cancel.
		return models.Note{}, err
	}

	m.mutex.Lock()
	m.session++
	m.open = false
	m.draftID = ""
	m.mutex.Unlock()

	m.log.Infof("Draft saved as note %s", saved.ID)
	return saved, nil
}

// Close dismisses the dialog without saving. Any pending debounce callback
// is cancelled BEFORE the draft is deleted, so no stale write can land
// after cleanup. An unsaved draft is removed from the repository; a session
// that never created one has nothing to clean up.
func (m *Manager) Close() {
	m.mutex.Lock()

	if !m.open {
		m.mutex.Unlock()
		return
	}

	m.debouncer.Cancel(draftKey)
	m.session++
	m.open = false
	draftID := m.draftID
	m.draftID = ""
	m.mutex.Unlock()

	if draftID == "" {
		return
	}
	if err := m.repo.Delete(draftID); err != nil {
		m.log.Errorf("Draft cleanup failed for %s: %v", draftID, err)
	} else {
		m.log.Debugf("Draft discarded: %s", draftID)
	}
}

// Flush runs a pending sync immediately. Tests and shutdown paths use it to
// avoid waiting out the quiet window.
func (m *Manager) Flush() {
	m.mutex.Lock()
	seq := m.session
	pending := m.debouncer.Pending(draftKey)
	m.mutex.Unlock()

	if pending {
		m.debouncer.Cancel(draftKey)
		m.sync(seq)
	}
}

// noteFromFields builds the write-back payload. Must be called with the
// mutex held.
func (m *Manager) noteFromFields() models.Note {
	return models.Note{
		ID:      m.draftID,
		Title:   m.fields.Title,
		Content: m.fields.Content,
		Color:   m.fields.Color,
		Tags:    m.fields.Tags,
		Items:   m.fields.Items,
	}
}
