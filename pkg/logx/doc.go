// Package logx configures patternkit's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller) on stderr
//   - File output JSON-structured
//
// Demonstration output never goes through logx; it is written to a sink so
// stdout stays clean.
package logx
