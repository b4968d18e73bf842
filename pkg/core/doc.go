// Package core implements the synchronization engine: it reconciles the
// instructions parsed from an edited plan with the metadata stored on each
// commit, moves local branch pointers to the commits that carry a push target,
// and negotiates with remotes whether overwriting each branch is safe.
package core
