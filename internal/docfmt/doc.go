// Package docfmt reads and writes the flat, TOML-like text form of a CLI
// metadata document:
//
//	[program]
//	name = "climeta"
//	description = "Generate CLI parsers"
//
//	[[arguments]]
//	name = "--lang"
//	short = "-l"
//	type = "string"
//	choices = "python,bash"
//	help = "language for the generated code"
//
// Writing is strict: the document is validated and nothing is produced when
// any field is invalid. Reading is forgiving: the parser never fails on
// content, keeps unknown keys, and leaves validation to whoever uses the
// result. Values are quoted without escaping, so a value cannot contain a
// newline and a value that starts or ends with a quote character does not
// survive a round trip.
package docfmt
