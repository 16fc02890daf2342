package store

import "strings"

// Key kinds used to namespace stored objects.
const (
	KindSettings = "settings"
	KindProject  = "project"
	KindEndpoint = "endpoint"
	KindStatic   = "static"
)

// SettingsKey is the key of the settings singleton.
const SettingsKey = KindSettings

// Key returns the storage key for an object of the given kind.
func Key(kind, id string) string {
	return kind + ":" + id
}

// Prefix returns the key prefix shared by every object of kind.
func Prefix(kind string) string {
	return kind + ":"
}

// SplitKey splits a key into kind and identifier. Keys without a separator
// (the settings singleton) return an empty identifier.
func SplitKey(key string) (kind, id string) {
	kind, id, _ = strings.Cut(key, ":")
	return kind, id
}
