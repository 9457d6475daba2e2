// Package legacy provides key-value stores standing in for the browser
// storage that held SQL Lab state before it moved server side.
//
// Both stores implement core.LegacyStorage and are what the bootstrap
// pipeline reads the "redux" slot from.
package legacy
