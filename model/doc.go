// Package model defines the records exchanged between the grading pool
// components: rubric entries, exam records and the constants that bound them.
//
// The types here are plain values. Shared-memory views over the same data
// live in service/segment; persistent text encodings live in
// service/dao/codec.
package model
