// Package core defines the shared language of the g2p system.
//
// This package contains:
//   - Alignment entities (CharIndex, IndexPair, Alignment)
//   - The error taxonomy shared by the engine and its callers
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
