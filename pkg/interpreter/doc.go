// Package interpreter executes statement lists over a stack of lexical scopes.
// Expressions arrive already in postfix form; statement kinds the package does
// not know are delegated to the embedding Host. Script failures are returned as
// *ScriptError values and stop the run, while contract violations by the host
// (an empty scope stack, parentheses left in a postfix sequence) are raised as
// *runtime.Fault panics and recovered at the Run, Execute and Evaluate
// boundaries.
package interpreter
