// Package history persists a record of CLI invocations in SQLite so past
// operations can be listed and inspected. Writes across concurrent CLI
// processes are serialized with a file lock next to the database.
package history
