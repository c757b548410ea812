// Package archive keeps a local SQLite history of reconciliation runs:
// run metadata, every finding, and the reviewer's observations.
package archive
