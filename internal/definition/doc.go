// Package definition implements the block field definition language.
//
// A definition string is a comma-separated list of fragments:
//
//	definitions := fragment ("," fragment)*
//	fragment    := label ":" type ("-" options)? "!"?
//	options     := option ("-" option)*
//
// Labels cannot contain commas or colons; there is no escaping. Parse
// decodes a definition string into field definitions and Encode renders
// them back, split into chunks of at most MaxChunkLength characters so
// each chunk fits a length-limited parameter slot. Chunks are only
// meaningful once concatenated; a chunk boundary may fall anywhere.
package definition
