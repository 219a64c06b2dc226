// Package preview serves a small HTTP editor for quizzes: POST markdown to
// /render or /qti and get the rendered document or a QTI package back.
package preview
