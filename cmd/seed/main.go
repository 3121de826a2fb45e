package main

import (
	"fmt"
	"os"

	"notedeck"
	"notedeck/pkg/config"
	"notedeck/pkg/models"
)

// sampleContent returns a markdown string exercising the renderer.
func sampleContent() string {
	return `# Welcome

This note demonstrates **markdown** content.

- Notes are stored locally in a single JSON file
- Drag cards to reorder them
- Use the filter bar to narrow by color, tag, or text

> Drafts auto-save while you type and are discarded if you close the dialog.
`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := notedeck.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	samples := []models.DraftFields{
		{Title: "Welcome to Notedeck", Content: sampleContent(), Color: models.ColorYellow, Tags: []string{"intro"}},
		{Title: "Groceries", Content: "milk, eggs, bread", Color: models.ColorGreen, Tags: []string{"home"},
			Items: []models.ChecklistItem{{Text: "milk"}, {Text: "eggs"}, {Text: "bread"}}},
		{Title: "Reading list", Content: "- The Go Programming Language\n- Designing Data-Intensive Applications", Tags: []string{"books"}},
	}

	for _, fields := range samples {
		note, err := app.Service().CreateNote(fields)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create note: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created note %s: %s\n", note.ID, note.Title)
	}

	fmt.Printf("Seeded %d notes into %s\n", len(samples), cfg.DataPath)
}
