// Package sshd holds the small slice of the SSH wire vocabulary that the
// keep-alive subsystem touches: the message numbers for global requests and
// their replies, and a pooled packet buffer with the string/boolean encoding
// those messages use.
//
// Frame encryption, padding and MAC handling belong to lower layers and are
// deliberately absent here.
package sshd
