// Package assembly builds token-budgeted context bundles for AI chat.
//
// It owns the embedding model price table and token estimation heuristic,
// vectorization and enrichment configuration with their validators, the
// deterministic query-hash / cache-key scheme for vector search results,
// and the assembler that packs scored candidates into a budget.
package assembly
