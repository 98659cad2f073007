// Package domain defines the core domain types and interfaces.
//
// This package contains the article model, ordering and vote-outcome value
// types, and the board repository contract. No implementation code - just
// contracts. Prevents circular imports by keeping interfaces on the consumer
// side.
package domain
