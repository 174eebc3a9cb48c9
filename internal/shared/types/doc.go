// Package types contains cross-cutting record shapes shared by all
// domain packages: the persistence envelope with tenant partitioning
// and storage system fields, and common list/paging primitives.
package types
