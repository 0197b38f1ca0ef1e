// Package connectors holds platform-specific clients. Each connector wraps
// one external API behind the driven ports the core services consume.
//
// The github connector is currently the only implementation.
package connectors
