// Package config defines the format-agnostic interfaces for reading and
// writing CLI metadata documents, along with format detection and document
// discovery on disk.
//
// The model.Document is the single representation every other package works
// with. Concrete encodings, such as the flat text format and HCL, are
// provided in separate packages and plugged in through a Registry.
package config
