// Package shm maps fixed-size regions of 32-bit words that several worker
// processes can read and write at the same time.
//
// A file region is a named file mapped with MAP_SHARED; every process that
// attaches the same name sees the same words. A memory region is an ordinary
// heap block with the same API, used when all workers live in one process.
// Words are always accessed atomically, so concurrent readers observe either
// the old or the new value of a word, never a torn one. Higher-level
// consistency is the caller's business (see service/gate).
package shm
