// Package assembler turns a validated configuration document into a
// training session. Sections are resolved in a fixed order, each step using
// only the results of earlier ones, and any failure aborts the whole
// assembly: a partially built session is never returned.
package assembler
