// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the training lifecycle: load the document,
// apply command-line overrides, prepare the run directories, assemble the
// session and hand it to the trainer. It is decoupled from any specific
// entrypoint like a CLI.
package app
