// Package shard implements the platform's generic content unit.
//
// A Shard is a tenant-partitioned record (document, contact, task, ...)
// whose structured data is governed by a ShardType. ShardType schemas come
// in three formats — legacy field lists, JSON Schema, and the rich format —
// and child types may extend a parent schema via merging. Computed fields
// derive values from shard data or related shards.
package shard
