// Package hcl provides the HCL encoding of a CLI metadata document, the
// config.Codec counterpart of the flat text format with real string escaping:
//
//	program {
//	  name        = "climeta"
//	  description = "Generate CLI parsers"
//	}
//
//	argument "--lang" {
//	  short    = "-l"
//	  type     = "string"
//	  required = true
//	  choices  = ["python", "bash"]
//	  help     = "language for the generated code"
//	}
//
// Decoding reports HCL syntax errors but, like the flat format, does not
// validate the document. Defaults may be written with their natural HCL type
// (numbers, bools, lists); they are converted back to the string form the
// model uses.
package hcl
