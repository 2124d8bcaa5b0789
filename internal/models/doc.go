// Package models defines the core domain models for MathNote.
//
// # Models
//
//   - DataModel: the root document, an ordered list of groups
//   - Group: a user-named notebook holding an ordered list of notes
//   - Note: a titled, timestamped unit of rich-text/math content
//
// The whole document is serialized as one JSON value into a single storage
// slot, so the JSON field names here are the persisted format:
//
//	{ "groups": [{ "id", "name", "notes": [{ "id", "title", "content", "timestamp" }] }] }
//
// There is no version field. A format change needs a migration on load, or
// old data falls back to the seed document.
//
// # Design Principles
//
// 1. **Values, not pointers**: groups and notes are stored by value so a
// snapshot can be copied and compared without aliasing surprises
// 2. **Ownership by containment**: a note belongs to exactly one group because
// it is stored inside that group's slice, never referenced from two places
// 3. **Opaque content**: the store never interprets Note.Content
package models
