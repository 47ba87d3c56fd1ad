// Package page is the boundary to the browser engine and GUI collaborators.
//
// Inbound, the page layer delivers State snapshots (elements, focus, video
// mode, dialogs) and answers hit-test queries through Querier. Outbound, the
// gaze core emits discrete Commands through a Sink and advisory Feedback
// through a FeedbackSink. Nothing in this package talks to a browser.
package page
