// Package expr implements the boolean condition language used by workflow
// transitions and exit conditions.
//
// Grammar, lowest to highest binding:
//
//	expr       := term (OR term)*
//	term       := factor (AND factor)*
//	factor     := NOT factor | '(' expr ')' | comparison | identifier | literal
//	comparison := identifier op literal      op ∈ {==, !=, >, <, >=, <=}
//	literal    := quoted string | number | true | false
//
// Keywords are case-insensitive. Expressions are compiled once at workflow
// load time; syntax errors surface there and only there. Evaluation is
// total: a missing identifier behaves as null (falsy, unequal to every
// literal), and ordering comparisons against missing or type-mismatched
// operands yield false instead of erroring, so the engine can always make
// routing progress.
package expr
