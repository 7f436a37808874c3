// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the operations behind every command,
// decoupled from the command-line front end.
package app
