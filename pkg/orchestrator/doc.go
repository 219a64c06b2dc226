// Package orchestrator wires the quiz pipeline: source text goes through the
// render invoker, becomes a quiz model, receives identifiers and is either
// rendered in one of the output formats or packaged as QTI. Every stage can
// be replaced through options; the defaults use the in-process engine.
package orchestrator
