package port

import (
	"fmt"
	"net"
)

// searchWindow is the number of consecutive ports probed by FindFreePort
// before giving up. 100 candidates starting at 8080 has always been more
// than enough on a developer machine; if all of them are taken something
// else is wrong and the operator should be told rather than searching on.
const searchWindow = 100

// Scanner checks whether specific TCP ports are available on the host
// machine.
//
// It uses the operating system's network stack (net.Listen) to determine
// if a port is free. This is the most reliable method because it asks the
// OS directly, rather than parsing /proc/net/* or relying on external
// commands like `lsof` or `ss` which may require elevated permissions.
//
// The struct is currently stateless, but is defined as a struct (rather
// than bare functions) so that future options (e.g., bind address) can be
// added without breaking the API, and so the Scanner can be injected as a
// dependency in tests.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsAvailable checks whether a single TCP port is free on the host machine.
//
// It attempts net.Listen("tcp", ":port"). If the listen succeeds, the port
// is available — the listener is immediately closed via defer.
//
// We bind to all interfaces (":port" rather than "127.0.0.1:port") because
// the server itself binds all interfaces, so the probe must check the same
// address space to avoid false positives.
func (s *Scanner) IsAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	// Close immediately: we only needed to test availability, not
	// actually accept connections.
	defer func() { _ = listener.Close() }()
	return true
}

// FindFreePort probes ports sequentially from start and returns the first
// one that is available.
//
// The search is sequential and deterministic, so the same free port is
// selected consistently across runs — the server lands on 8080 unless
// something else holds it. A port whose probe failed is never returned.
//
// Note the bind-and-release probe is best-effort: another process can
// grab the port between the probe and the server's own bind. That race
// is accepted for a local development tool.
//
// Returns an error if no available port is found within searchWindow
// consecutive candidates.
func (s *Scanner) FindFreePort(start int) (int, error) {
	for port := start; port < start+searchWindow; port++ {
		if s.IsAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free port found in range %d-%d", start, start+searchWindow-1)
}
