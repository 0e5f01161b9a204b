package types

// Store persists field definitions and stored blocks per collection.
// A collection is one block field: one definition plus its blocks.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// SaveDefinitions replaces the collection's field definitions.
	SaveDefinitions(collection string, defs []FieldDefinition) error

	// LoadDefinitions returns the collection's field definitions.
	// Returns ErrCollectionNotFound if none were saved.
	LoadDefinitions(collection string) ([]FieldDefinition, error)

	// SaveBlocks replaces the collection's blocks, preserving order.
	SaveBlocks(collection string, blocks []StoredBlock) error

	// LoadBlocks returns the collection's blocks in saved order. A
	// collection with definitions but no blocks yields an empty slice.
	LoadBlocks(collection string) ([]StoredBlock, error)

	// Collections lists collection names in ascending order.
	Collections() ([]string, error)

	// DeleteCollection removes definitions and blocks of a collection.
	DeleteCollection(collection string) error
}
