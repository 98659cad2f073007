// Package app provides the application service layer.
//
// Orchestrates use cases: posting, voting, global and per-group listings,
// group membership changes. Sits between HTTP handlers and the board
// repository. Depends on domain interfaces, not concrete implementations.
package app
