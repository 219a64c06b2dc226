// Package quiz holds the in-memory quiz model produced by the JSON render
// format, and the identifier assignment that cross-links a quiz with the
// documents generated for it.
package quiz
