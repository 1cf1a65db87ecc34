// Package registry provides the central "glue" for the module system.
//
// The Registry stores mappings between the task names used in graph files
// (e.g., "http_request") and the compiled Go actions that implement them.
// Modules register their actions at startup; the application then binds the
// resulting behavior to a loaded conduit.
//
// Before a graph is folded, Validate checks that every task name the graph
// declares has an action, so a missing module is reported up front instead
// of in the middle of a run.
package registry
