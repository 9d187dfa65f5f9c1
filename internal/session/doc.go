// Package session drives one run of the allocator: it reads the design codes
// and flower tokens, builds the shared inventory, allocates every design in
// input order and renders the outcome of each.
package session
