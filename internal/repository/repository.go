// Package repository implements the content, chat-thread and todo
// repositories over a storage.Store. Every mutation is a locked
// load-mutate-save cycle over the owning collection.
package repository

import "errors"

// ErrNotFound is returned when an update-style operation targets an id
// that no longer exists. Deletes stay idempotent and never return it.
var ErrNotFound = errors.New("repository: not found")

// Persistence keys, versioned so a future schema change can migrate
// existing data instead of silently misreading it.
const (
	chaptersKey     = "formula-ace:v1:chapters"
	chatThreadsKey  = "formula-ace:v1:chat-threads"
	todosKey        = "formula-ace:v1:todos"
	activeThreadKey = "formula-ace:v1:active-thread"
)
