// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of a CLI metadata document: the
// description of a program and the ordered list of command-line arguments it
// accepts.
//
// # Core Concepts
//
//   - Document: the root container. It pairs the ProgramMetadata with the
//     ordered sequence of ArgumentSpec values.
//
//   - ArgumentSpec: one declared argument, exactly as a user typed it in an
//     editor or a configuration file. Values are kept as strings so that a
//     document can be carried around and re-serialized before it is valid.
//
//   - Resolved: the derived, fully-typed view of an ArgumentSpec that code
//     generators and the argument normalizer consume. Defaults become cty
//     values, dest and metavar fall back to the argument name, and the
//     implicit "required" rules are applied.
//
// Validation is deliberately separate from construction: parsers build
// documents forgivingly, and every consumer that needs a well-formed document
// calls Validate (or Resolve, which validates first). Validate never stops at
// the first problem; it reports every offending field so that a caller can
// highlight all of them in one pass.
package model
