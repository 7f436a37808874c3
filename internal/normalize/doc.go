// Package normalize turns raw process arguments into a normalized options
// record according to a fixed set of option declarations.
//
// Tokenizing is delegated to spf13/pflag. On top of it the normalizer
// overlays supplied values onto declared defaults, insists that every option
// ends up with a value, renames options to their destination names, inverts
// flags that are declared "on by default", checks the number of positional
// arguments and validates values against declared choice sets.
//
// Outcomes that end the process are reported as *ExitError: status 0 after
// printing usage for the help flag, status 1 for everything else. The help
// flag wins over every other problem on the command line.
package normalize
