// Package action holds the units of interaction that pipelines execute.
//
// An Action is a small state machine advanced once per frame with the
// current filtered gaze and the pipeline's shared data map. It never sleeps
// or blocks: waiting is done by accumulating the frame delta. Side effects
// leave only through the injected page.Sink and page.FeedbackSink.
//
// Actions opt into extra behavior through capability interfaces:
//
//	Reversible  undo a visible side effect when the pipeline aborts
//	Timed       report how much frame time the action has consumed
//
// Terminal actions emit exactly one page command and finish.
package action
