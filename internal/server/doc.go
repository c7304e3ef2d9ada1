// Package server wires configuration, logging, stores, the engine and the
// HTTP router into the toxin-server process.
package server
