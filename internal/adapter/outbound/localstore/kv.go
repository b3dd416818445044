// Package localstore persists session slots on the local machine.
//
// A slot is a named string value (tokens, the serialized admin profile).
// Two backends implement the same KV contract: a JSON file with atomic
// writes and cross-process locking, and a SQLite database for installs
// that share state between tools.
package localstore

// KV is the slot storage contract.
type KV interface {
	// Get returns the slot value and whether it exists.
	Get(key string) (string, bool, error)
	// Set writes one slot.
	Set(key, value string) error
	// SetMany writes all given slots in one durable step.
	SetMany(slots map[string]string) error
	// Delete removes the named slots; missing keys are not an error.
	Delete(keys ...string) error
	// Keys lists the stored slot names.
	Keys() ([]string, error)
	// Close releases backend resources.
	Close() error
}
