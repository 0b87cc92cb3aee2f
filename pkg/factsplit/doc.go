// Package factsplit partitions a custom SQL expression between a fact table
// query and a dimension table query.
//
// The expression is parsed with pkg/sqlexpr and every node is painted:
//
//	Safe     references only the fact table (or unqualified columns)
//	Unsafe   references some other table
//	Neutral  references no column at all
//
// The largest Safe subtrees are projected out of the fact table under
// generated aliases (color0, color1, ...) and the original text is
// rewritten to read them back through a with-alias. Malformed SQL is never
// an error: the expression passes through unchanged.
package factsplit
