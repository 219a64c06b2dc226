// Package practice quizzes a person in the terminal: each question is asked
// as a select or multi-select prompt and the answers are scored.
package practice
