// Package interpreter executes resolved syntax trees by walking them. It
// evaluates expressions and statements against a chain of environments,
// using the resolver's scope-distance table for lexically scoped variable
// access. Runtime errors carry the source line of the offending operation
// and abort execution at that statement.
package interpreter
