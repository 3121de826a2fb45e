package services

import (
	"notedeck/pkg/errors"
	"notedeck/pkg/filter"
	"notedeck/pkg/logger"
	"notedeck/pkg/models"
	"notedeck/pkg/repository"
)

// NoteService handles note business logic on top of the repository: input
// validation, error wrapping, and the read-side filter queries the
// presentation layer consumes.
type NoteService struct {
	repo *repository.Repository
	log  *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(repo *repository.Repository, log *logger.Logger) *NoteService {
	return &NoteService{
		repo: repo,
		log:  log,
	}
}

// GetAllNotes returns all notes in display order.
func (s *NoteService) GetAllNotes() []models.Note {
	return s.repo.Notes()
}

// GetNote returns a specific note by ID with validation
func (s *NoteService) GetNote(id string) (models.Note, error) {
	validator := errors.NewValidator()
	if result := validator.ValidateNoteID(id); !result.IsValid {
		err := result.GetFirstError()
		s.log.Warn(err.Error())
		return models.Note{}, err
	}

	return s.repo.Get(id)
}

// CreateNote creates a finalized note directly. Unlike drafts, finalized
// notes must carry a non-empty title and a palette color.
func (s *NoteService) CreateNote(fields models.DraftFields) (models.Note, error) {
	validator := errors.NewValidator()
	if result := validator.ValidateTitle(fields.Title); !result.IsValid {
		err := result.GetFirstError()
		s.log.Warn(err.Error())
		return models.Note{}, err
	}
	if fields.Color != "" && !models.IsValidColor(fields.Color) {
		err := errors.ErrInvalidColor.WithContext("color", string(fields.Color))
		s.log.Warn(err.Error())
		return models.Note{}, err
	}

	note, err := s.repo.Create(fields)
	if err != nil {
		s.log.Errorf("Create failed: %v", err)
		return models.Note{}, err
	}
	return note, nil
}

// UpdateNote replaces an existing note's user-editable fields. Finalized
// notes keep the same validation as creation; a trim-empty title is
// rejected here, never persisted.
func (s *NoteService) UpdateNote(note models.Note) (models.Note, error) {
	validator := errors.NewValidator()
	if result := validator.ValidateNoteID(note.ID); !result.IsValid {
		err := result.GetFirstError()
		s.log.Warn(err.Error())
		return models.Note{}, err
	}
	if result := validator.ValidateTitle(note.Title); !result.IsValid {
		err := result.GetFirstError()
		s.log.Warn(err.Error())
		return models.Note{}, err
	}
	if note.Color != "" && !models.IsValidColor(note.Color) {
		err := errors.ErrInvalidColor.WithContext("color", string(note.Color))
		s.log.Warn(err.Error())
		return models.Note{}, err
	}

	updated, err := s.repo.Update(note)
	if err != nil {
		s.log.Warnf("Update failed for %s: %v", note.ID, err)
		return models.Note{}, err
	}
	return updated, nil
}

// DeleteNote deletes a note. Deleting an unknown id is a no-op.
func (s *NoteService) DeleteNote(id string) error {
	return s.repo.Delete(id)
}

// ReorderNotes moves the note at fromIndex to toIndex.
func (s *NoteService) ReorderNotes(fromIndex, toIndex int) error {
	if err := s.repo.Reorder(fromIndex, toIndex); err != nil {
		s.log.Warnf("Reorder (%d -> %d) rejected: %v", fromIndex, toIndex, err)
		return err
	}
	return nil
}

// FilterNotes derives the visible subset for the given criteria.
func (s *NoteService) FilterNotes(criteria filter.Criteria) []models.Note {
	return filter.Apply(s.repo.Notes(), criteria)
}

// SearchNotes is the free-text path of the filter bar.
func (s *NoteService) SearchNotes(query string) []models.Note {
	return filter.Apply(s.repo.Notes(), filter.Criteria{Search: query})
}

// SuggestTags ranks known tags against partial filter-bar input.
func (s *NoteService) SuggestTags(input string) []string {
	return filter.SuggestTags(s.repo.Notes(), input)
}
