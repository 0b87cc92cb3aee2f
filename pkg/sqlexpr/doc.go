// Package sqlexpr parses a single scalar SQL expression, the kind used for
// custom color and measure expressions in chart layers, into an AST whose
// nodes carry the exact source span they were parsed from.
//
// # Usage
//
//	expr, err := sqlexpr.Parse("avg(case when id = '48' then 0 else states.rid end)")
//	if err != nil {
//	    // not analyzable, use the expression verbatim
//	}
//
// # Grammar
//
// Levels are listed from loosest to tightest binding; each level is built
// on the one below it.
//
//	disjunction    → conjunction { OR conjunction }
//	conjunction    → negation { AND negation }
//	negation       → NOT negation | is_test
//	is_test        → comparison { IS [NOT] (NULL | TRUE | FALSE) }
//	comparison     → membership { ("=" | "<>" | "!=" | "<" | "<=" | ">" | ">=") membership }
//	membership     → additive { [NOT] BETWEEN additive AND additive
//	                          | [NOT] IN "(" expr_list ")"
//	                          | [NOT] (LIKE | ILIKE) additive }
//	additive       → multiplicative { ("+" | "-" | "||") multiplicative }
//	multiplicative → exponent { ("*" | "/" | "%") exponent }
//	exponent       → atomic { "^" atomic }
//	atomic         → "(" disjunction ")"
//	               | CASE [disjunction] { WHEN disjunction THEN disjunction } [ELSE disjunction] END
//	               | CAST "(" disjunction AS type_name ")"
//	               | identifier "(" [ "*" | [DISTINCT] expr_list [ORDER BY order_list] ] ")"
//	               | ("+" | "-") atomic
//	               | identifier [ "." identifier ]
//	               | NUMBER | STRING | TRUE | FALSE | NULL
//
// Identifiers are either unquoted ([a-zA-Z_][a-zA-Z0-9_]*) or double quoted
// with "" as the escape for a literal quote. String constants use single
// quotes with '' as the escape; string constants separated only by
// whitespace containing a newline are concatenated.
//
// Not supported: window functions, the :: cast operator, COLLATE,
// sub-queries, ARRAY and ROW constructors, OVERLAPS, SIMILAR TO,
// BETWEEN SYMMETRIC, IS DISTINCT FROM, ISNULL, NOTNULL and IS UNKNOWN.
// Any of these makes Parse fail.
package sqlexpr
