package repository

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notedeck/pkg/errors"
	"notedeck/pkg/logger"
	"notedeck/pkg/models"
	"notedeck/pkg/storage"
)

func newTestRepo(t *testing.T) (*Repository, *storage.BlobStore) {
	t.Helper()
	store, err := storage.NewBlobStore(t.TempDir(), logger.New().Discard())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, logger.New().Discard()), store
}

func ids(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

// requireNoDrift asserts the persisted blob exactly mirrors the in-memory
// collection.
func requireNoDrift(t *testing.T, repo *Repository, store *storage.BlobStore) {
	t.Helper()
	require.Equal(t, ids(repo.Notes()), ids(store.Load()))
}

func TestCreate_AssignsIdentityAndDefaults(t *testing.T) {
	repo, store := newTestRepo(t)

	note, err := repo.Create(models.DraftFields{Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)

	assert.NotEmpty(t, note.ID)
	assert.True(t, note.CreatedAt.Equal(note.UpdatedAt))
	assert.Equal(t, models.Palette()[0], note.Color)
	assert.Equal(t, []string{}, note.Tags)
	assert.Equal(t, []models.ChecklistItem{}, note.Items)
	requireNoDrift(t, repo, store)
}

func TestCreate_AppendsAtEnd(t *testing.T) {
	repo, store := newTestRepo(t)

	first, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)
	second, err := repo.Create(models.DraftFields{Title: "B"})
	require.NoError(t, err)

	assert.Equal(t, []string{first.ID, second.ID}, ids(repo.Notes()))
	requireNoDrift(t, repo, store)
}

func TestCreate_NeverReusesIds(t *testing.T) {
	repo, _ := newTestRepo(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		note, err := repo.Create(models.DraftFields{Title: "note"})
		require.NoError(t, err)
		require.False(t, seen[note.ID], "id %q minted twice", note.ID)
		seen[note.ID] = true
	}
}

func TestCreate_MintsChecklistItemIds(t *testing.T) {
	repo, _ := newTestRepo(t)

	note, err := repo.Create(models.DraftFields{
		Title: "Trip",
		Items: []models.ChecklistItem{
			{Text: "passport"},
			{ID: "keepme01", Text: "tickets", Checked: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, note.Items, 2)
	assert.NotEmpty(t, note.Items[0].ID)
	assert.Equal(t, "keepme01", note.Items[1].ID)
	assert.NotEqual(t, note.Items[0].ID, note.Items[1].ID)
}

func TestUpdate_ReplacesFieldsPreservingIdentity(t *testing.T) {
	repo, store := newTestRepo(t)

	created, err := repo.Create(models.DraftFields{Title: "Groceries", Tags: []string{"home"}})
	require.NoError(t, err)

	updated, err := repo.Update(models.Note{
		ID:      created.ID,
		Title:   "Groceries!",
		Content: "milk, eggs, bread",
		Color:   models.ColorGreen,
		Tags:    []string{"home", "food", "home"},
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	assert.Equal(t, []string{"home", "food"}, updated.Tags)
	assert.Equal(t, models.ColorGreen, updated.Color)
	requireNoDrift(t, repo, store)
}

func TestUpdate_UnknownId_ReturnsNotFound(t *testing.T) {
	repo, store := newTestRepo(t)
	_, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)

	_, err = repo.Update(models.Note{ID: "deadbeef", Title: "ghost"})
	assert.True(t, stderrors.Is(err, errors.ErrNoteNotFound))
	assert.Len(t, repo.Notes(), 1)
	requireNoDrift(t, repo, store)
}

func TestDelete_RemovesNote(t *testing.T) {
	repo, store := newTestRepo(t)
	note, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(note.ID))
	assert.Empty(t, repo.Notes())
	requireNoDrift(t, repo, store)
}

func TestDelete_UnknownId_IsNoOp(t *testing.T) {
	repo, store := newTestRepo(t)
	_, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)

	// Double deletes race benignly with the UI.
	assert.NoError(t, repo.Delete("deadbeef"))
	assert.Len(t, repo.Notes(), 1)
	requireNoDrift(t, repo, store)
}

func seedThree(t *testing.T, repo *Repository) (a, b, c models.Note) {
	t.Helper()
	var err error
	a, err = repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)
	b, err = repo.Create(models.DraftFields{Title: "B"})
	require.NoError(t, err)
	c, err = repo.Create(models.DraftFields{Title: "C"})
	require.NoError(t, err)
	return a, b, c
}

func TestReorder_MovesElement(t *testing.T) {
	repo, store := newTestRepo(t)
	a, b, c := seedThree(t, repo)

	require.NoError(t, repo.Reorder(0, 2))

	assert.Equal(t, []string{b.ID, c.ID, a.ID}, ids(repo.Notes()))
	requireNoDrift(t, repo, store)
}

func TestReorder_InverseRestoresOrder(t *testing.T) {
	repo, store := newTestRepo(t)
	seedThree(t, repo)
	original := ids(repo.Notes())

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			require.NoError(t, repo.Reorder(i, j))
			require.NoError(t, repo.Reorder(j, i))
			assert.Equal(t, original, ids(repo.Notes()), "reorder(%d,%d) then reorder(%d,%d)", i, j, j, i)
		}
	}
	requireNoDrift(t, repo, store)
}

func TestReorder_OutOfRange_RejectedBeforeMutation(t *testing.T) {
	repo, store := newTestRepo(t)
	seedThree(t, repo)
	original := ids(repo.Notes())

	for _, tc := range []struct{ from, to int }{
		{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5},
	} {
		err := repo.Reorder(tc.from, tc.to)
		require.Error(t, err, "reorder(%d, %d)", tc.from, tc.to)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidIndex))
		assert.Equal(t, original, ids(repo.Notes()))
	}
	requireNoDrift(t, repo, store)
}

func TestReorder_EmptyCollection(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.Reorder(0, 0)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidIndex))
}

func TestPersistedStateTracksEveryOperation(t *testing.T) {
	repo, store := newTestRepo(t)

	a, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)
	requireNoDrift(t, repo, store)

	b, err := repo.Create(models.DraftFields{Title: "B"})
	require.NoError(t, err)
	requireNoDrift(t, repo, store)

	_, err = repo.Update(models.Note{ID: a.ID, Title: "A2"})
	require.NoError(t, err)
	requireNoDrift(t, repo, store)

	require.NoError(t, repo.Reorder(1, 0))
	requireNoDrift(t, repo, store)

	require.NoError(t, repo.Delete(b.ID))
	requireNoDrift(t, repo, store)
}

func TestObservers_NotifiedAfterEveryCommit(t *testing.T) {
	repo, _ := newTestRepo(t)

	var snapshots [][]string
	repo.Subscribe(func(notes []models.Note) {
		snapshots = append(snapshots, ids(notes))
	})

	a, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(a.ID))

	require.Len(t, snapshots, 2)
	assert.Equal(t, []string{a.ID}, snapshots[0])
	assert.Empty(t, snapshots[1])
}

func TestObservers_CanReadBackIntoRepository(t *testing.T) {
	repo, _ := newTestRepo(t)

	var seen int
	repo.Subscribe(func([]models.Note) {
		seen = len(repo.Notes())
	})

	_, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestNotesSnapshot_IsACopy(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Create(models.DraftFields{Title: "A", Tags: []string{"x"}})
	require.NoError(t, err)

	snap := repo.Notes()
	snap[0].Title = "mutated"
	snap[0].Tags[0] = "mutated"

	fresh := repo.Notes()
	assert.Equal(t, "A", fresh[0].Title)
	assert.Equal(t, "x", fresh[0].Tags[0])
}

// failingStore persists nothing once failing is set; used to verify the
// abandoned-operation contract.
type failingStore struct {
	notes   []models.Note
	failing bool
}

func (f *failingStore) Load() []models.Note {
	return models.CloneNotes(f.notes)
}

func (f *failingStore) Save(notes []models.Note) error {
	if f.failing {
		return errors.ErrStorageUnavailable
	}
	f.notes = models.CloneNotes(notes)
	return nil
}

func TestFailedSave_AbandonsOperation(t *testing.T) {
	fs := &failingStore{}
	repo := New(fs, logger.New().Discard())

	note, err := repo.Create(models.DraftFields{Title: "kept"})
	require.NoError(t, err)

	fs.failing = true

	_, err = repo.Create(models.DraftFields{Title: "lost"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrStorageUnavailable))

	_, err = repo.Update(models.Note{ID: note.ID, Title: "also lost"})
	require.Error(t, err)
	err = repo.Delete(note.ID)
	require.Error(t, err)
	err = repo.Reorder(0, 0)
	require.NoError(t, err) // no-op reorder never touches storage

	// In-memory and persisted state both still reflect the last successful
	// write.
	assert.Equal(t, []string{note.ID}, ids(repo.Notes()))
	assert.Equal(t, "kept", repo.Notes()[0].Title)
	assert.Equal(t, []string{note.ID}, ids(fs.notes))
}

func TestReload_ReplacesMirrorAndNotifies(t *testing.T) {
	repo, store := newTestRepo(t)
	_, err := repo.Create(models.DraftFields{Title: "A"})
	require.NoError(t, err)

	// Simulate an external rewrite of the blob.
	require.NoError(t, store.Save([]models.Note{}))

	var notified bool
	repo.Subscribe(func(notes []models.Note) {
		notified = true
		assert.Empty(t, notes)
	})

	repo.Reload()
	assert.True(t, notified)
	assert.Empty(t, repo.Notes())
}
