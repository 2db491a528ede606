/*
Package resilience guards span delivery with a circuit breaker.

# Overview

When the collector is down, every send would otherwise wait for its own
timeout and retries. The breaker fails those sends immediately instead,
so the delivery goroutine keeps draining its queue and drops spans fast
while the collector recovers.

# Usage

	breaker := resilience.New("collector", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("breaker state change", zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	err := breaker.Execute(func() error {
		return sink.Send(ctx, payload)
	})

# States

	Closed --[failures]-> Open --[cooldown]-> Half-Open --[probes succeed]-> Closed
	                                              |
	                                          [failure]
	                                              v
	                                             Open
*/
package resilience
