// Package editor holds the in-memory state of the document editor: the program
// metadata and an ordered collection of argument rows, each addressed by a
// stable generated identifier. Presentation layers (the HTTP server, the
// CLI) are projections over a Session and never hold state of their own.
//
// The session applies the same form rules an interactive editor enforces
// while a user types: positional arguments lose their default and short
// alias and become required, flags cannot be required and default to
// "false", and required arguments cannot carry a default. Validation is only
// performed on Generate, which reports every offending field by row ID and
// leaves the session untouched.
package editor
