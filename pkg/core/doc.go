// Package core defines the shared language of the SQL Lab workspace.
//
// This package contains:
//   - Domain entities (QueryEditor, Table, Query, Patch)
//   - The server bootstrap payload consumed on workspace load
//   - The initial state produced for the workspace
//   - Service interfaces (Store, LegacyStorage)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
