// Package segment defines the shared segments every worker maps: the rubric,
// the single exam slot and the pool control word.
//
// Segments are plain views over shm regions. They do no locking of their
// own; callers serialise mutation with service/gate.
package segment
