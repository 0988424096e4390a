package calendar

import "github.com/tartampluch/go-monthcal/internal/store"

// TextPrompter obtains a line of text from the user.
// It blocks until the user answers; ok is false when the prompt was cancelled.
type TextPrompter interface {
	Prompt(label, initial string) (text string, ok bool)
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(label string) bool
}

// Store is the durable side of the events mapping.
// *store.EventStore satisfies it.
type Store interface {
	Load() (store.Events, error)
	Save(store.Events) error
}

// Labels supplies the localized prompt and confirmation texts.
type Labels struct {
	PromptNew     string
	PromptEdit    string
	ConfirmDelete string
}
