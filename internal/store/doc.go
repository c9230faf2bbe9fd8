// Package store persists the episode, its items, and the author history in
// SQLite and enforces the structural rules of the item tree.
//
// Items are flat rows carrying a nullable parent reference and a sibling-local
// sort_order. The tree operations (add, delete with promotion, nest, extract,
// reorder) run inside single transactions and always leave every sibling scope
// numbered contiguously from zero. No other package writes sort_order or
// parent_id.
//
// Treat this package as the single source of truth for ordering semantics;
// schema changes are new files under migrations/.
package store
