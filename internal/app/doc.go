// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load a
// graph file, bind the registered module actions, fold the graph and report
// the accumulated results. It is decoupled from any specific entrypoint like
// a CLI or server.
package app
