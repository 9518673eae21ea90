// Package grader runs a pool of grading workers that share memory.
//
// The launcher creates three shared segments (rubric, exam slot and pool
// control), then starts the workers either as child processes or as
// goroutines. Every worker takes part in the rubric phase once and then
// marks every exam, one question at a time, under a single gate. A
// sentinel student (id 9999) stops the whole pool.
//
//	srv, _ := grader.New(grader.DefaultConfig())
//	summary, _ := srv.Run(ctx)
//	fmt.Println(summary.Completed, summary.Terminated)
//
// Sub-packages:
//
//   - service/segment    : shared rubric, exam slot and control segments
//   - service/gate       : in-process and cross-process gates
//   - service/marking    : question selection and the marking loop
//   - service/correction : the rubric phase
//   - service/worker     : one worker's control loop
//   - service/coordinator: spawning and reporting
package grader
