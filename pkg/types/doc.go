// Package types defines the declarative schema model (tables, columns,
// indexes, triggers, foreign keys), the store configuration, the config
// record entity, and the standard errors shared by the pantry packages.
//
// A schema is plain data. It is constructed once at process start and is not
// mutated afterwards; the migrate package reconciles a live database to it.
package types
