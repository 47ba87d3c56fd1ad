/*
Package resilience provides the circuit breaker that guards bridge writes.

A tab's WebSocket writer sends every command and feedback message through a
Breaker. When the client stops reading, writes start failing on their
deadline; after enough consecutive failures the breaker opens and messages
are dropped immediately (and counted) instead of stalling the writer for a
full timeout each time. After Cooldown a limited number of writes are let
through to test the connection.

# Usage

	breaker := resilience.New(resilience.Settings{
		Failures:     3,
		Cooldown:     2 * time.Second,
		WriteTimeout: 5 * time.Second,
		OnReject: func(kind string, err error) {
			metrics.RecordWSMessage("dropped", kind)
		},
	})

	err := breaker.Execute("command", func(deadline time.Time) error {
		_ = conn.SetWriteDeadline(deadline)
		return conn.WriteMessage(websocket.TextMessage, payload)
	})
	if resilience.Rejected(err) {
		// dropped without touching the socket
	}

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
