// Package application provides application initialization and dependency wiring.
// It encapsulates the creation of the allocator, session runner, handlers,
// router and HTTP server, keeping the main package focused on CLI parsing and
// orchestration.
package application
