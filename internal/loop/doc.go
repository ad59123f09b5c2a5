// Package loop runs an agent repeatedly against a task list.
//
// A run validates that the task file exists, counts incomplete tasks to
// pick the default iteration count, then invokes the agent once per
// iteration in the foreground. SIGINT and SIGTERM are caught only for the
// duration of the loop; on either, the running agent receives SIGTERM and
// the run ends with ErrInterrupted.
//
// Stall detection (DetectStuck) is opt-in: when a threshold is set, the
// run stops once that many consecutive iterations pass without an
// increase in the number of passing tasks.
package loop
