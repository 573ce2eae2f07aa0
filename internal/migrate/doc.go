// Package migrate reconciles a live SQLite schema to a static list of table
// definitions. Every run is idempotent: objects are identified by name only,
// missing tables, columns, indexes and triggers are created, and nothing that
// already exists is altered or dropped. There is no version table and no
// rollback; rerunning on the next startup is the recovery path.
//
// A run flattens the definitions (Transform), walks six ordered lifecycle
// phases (Lifecycle) with the object appliers registered on them, and then
// seeds default rows (Seeder). Runner wires these together.
package migrate
