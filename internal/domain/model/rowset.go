package model

// Row is a single record returned by a read, keyed by column name.
type Row map[string]any

// RowSet is the ordered result of a read. It is consumed once by the caller.
type RowSet []Row
