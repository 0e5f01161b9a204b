// Package types defines the block data model shared by the definition
// language, the codec, the validation engine and the store: field types,
// field definitions, the typed value union, blocks, rich-text documents,
// the stored (wire) representation and the standard error values.
package types
