package service

import "time"

// Latency simulates the round trip of a remote catalog. Wait blocks for the
// delay of the named operation. It is not interruptible: an operation the
// caller stopped waiting for still runs to completion.
type Latency interface {
	Wait(operation string)
}

type noDelay struct{}

// NoDelay is the strategy for tests and for deployments that want the raw
// in-memory speed.
var NoDelay Latency = noDelay{}

func (noDelay) Wait(string) {}

type fixedDelay time.Duration

func FixedDelay(d time.Duration) Latency {
	if d <= 0 {
		return NoDelay
	}
	return fixedDelay(d)
}

func (d fixedDelay) Wait(string) {
	time.Sleep(time.Duration(d))
}

// DefaultOperationDelays mirror the response times the browser client was
// designed against.
var DefaultOperationDelays = map[string]time.Duration{
	"GetAll":  300 * time.Millisecond,
	"GetByID": 200 * time.Millisecond,
	"Search":  400 * time.Millisecond,
	"Create":  500 * time.Millisecond,
	"Update":  400 * time.Millisecond,
	"Delete":  300 * time.Millisecond,
}

type perOperationDelay map[string]time.Duration

// PerOperationDelay waits delays[operation]; unknown operations do not wait.
func PerOperationDelay(delays map[string]time.Duration) Latency {
	copied := make(perOperationDelay, len(delays))
	for op, d := range delays {
		copied[op] = d
	}
	return copied
}

func (p perOperationDelay) Wait(operation string) {
	if d := p[operation]; d > 0 {
		time.Sleep(d)
	}
}
