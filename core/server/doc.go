// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// only defines the configuration structure for it.
//
// # Configuration
//
// The Config struct defines the HTTP port and the optional API key guarding
// the read-only inventory endpoints.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the serve command to build the listen address.
package server
