// Package model describes the data model for yggit: commits of the working
// stack, the metadata records attached to them, the instructions parsed from an
// edited plan and the per-branch outcome of a push run.
package model
