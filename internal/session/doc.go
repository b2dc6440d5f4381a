// Package session defines the Training Session: the fully assembled object
// graph handed to a trainer, and the boundary contract the trainer relies on.
package session
