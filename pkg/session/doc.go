// Package session implements the minimal client session the keep-alive
// subsystem runs against: an outbound write queue with completion futures,
// global requests paired with their replies in protocol order, the
// key-exchange tri-state, and a fault sink that tears the session down.
//
// Channel multiplexing, encryption and authentication live below or beside
// this package and are out of its scope.
package session
