/*
Package coordinator owns the gaze interaction of one browser tab.

A Coordinator holds the tab's filter, drift correction, hit-test snapshot,
triggers and the slot table of running pipelines. Everything it owns is
touched by a single frame thread, the goroutine calling Frame (usually Run).
Producers on other goroutines only reach the mailbox:

	Enqueue      tracker samples (bounded queue, drained once per frame)
	UpdatePage   page state notifications (latest wins)
	SubmitText   keyboard input for a waiting text pipeline
	Start, Abort manual pipeline control
	Recalibrate  drift reset
	RequestDrift drift anchor at a known target

# Frame order

	1. take the mailbox
	2. drain samples into the filter, advance it by dt
	3. run posted controls
	4. evaluate triggers; apply every abort, then every start
	5. advance the running pipelines in slot order
	6. retire ended pipelines; they are reported to the next evaluation

At most one pipeline runs per slot. Starting a pipeline in an occupied slot
aborts the previous one with pipeline.ErrSuperseded. Pipeline terminations
are logged and counted; their errors never leave the coordinator.
*/
package coordinator
