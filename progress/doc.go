// Package progress keeps grading counters for one worker or one run and
// prints the phase banners operators watch while the pool runs.
package progress
