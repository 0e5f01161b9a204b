package sqlite

// Schema DDL. The database is rebuilt from the JSONL files on every Attach,
// so there are no migrations.
const (
	createDefinitions = `CREATE TABLE definitions (
    collection TEXT NOT NULL,
    seq INTEGER NOT NULL,
    chunk TEXT NOT NULL,
    PRIMARY KEY (collection, seq)
);`

	createBlocks = `CREATE TABLE blocks (
    collection TEXT NOT NULL,
    position INTEGER NOT NULL,
    block_id TEXT NOT NULL,
    body TEXT NOT NULL,
    PRIMARY KEY (collection, position)
);`
)

// Index DDL.
const (
	idxBlocksID = `CREATE UNIQUE INDEX idx_blocks_id ON blocks(collection, block_id);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createDefinitions,
	createBlocks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxBlocksID,
}
