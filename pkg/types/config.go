package types

import "errors"

// Config holds backend selection and codec parameters for Store.Attach.
type Config struct {
	Backend     string `json:"backend" yaml:"backend"`
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	StorageMode string `json:"storage_mode" yaml:"storage_mode,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Storage modes select how a field value occupies the stored data slot.
// Exactly one mode applies to a whole collection.
const (
	// StorageModeRaw stores the value JSON as is.
	StorageModeRaw = "raw"
	// StorageModeStringified stores the value JSON inside a JSON string.
	StorageModeStringified = "stringified"
)

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrStorageModeUnknown = errors.New("unknown storage mode")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var knownStorageModes = map[string]bool{
	StorageModeRaw:         true,
	StorageModeStringified: true,
}

// GetStorageMode returns the configured storage mode, defaulting to raw.
func (c Config) GetStorageMode() string {
	if c.StorageMode == "" {
		return StorageModeRaw
	}
	return c.StorageMode
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownStorageModes[c.GetStorageMode()] {
		return ErrStorageModeUnknown
	}
	return nil
}
