/*
Package bridge connects page clients and gaze trackers to tab coordinators
over WebSocket.

Two endpoints are served:

	/tabs/:id/ws  the page client of one tab: page state, samples and typed
	              text in; commands and feedback out
	/tracker      a tracker stream; samples go to the focused tab

Messages are JSON objects with a "type" field, encoded with sonic:

	in:  sample, samples, page_state, text, ping
	out: command, feedback, pong, error

Outbound messages go through a bounded send buffer drained by one writer
goroutine per connection, so coordinators never block on the network. The
writer wraps every socket write in a circuit breaker: once writes keep
timing out, messages are dropped until the client recovers. Dwell progress
feedback is rate limited per connection; other feedback and all commands are
never throttled.
*/
package bridge
