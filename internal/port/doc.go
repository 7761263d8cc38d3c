// Package port implements TCP port availability scanning for the
// devserve CLI.
//
// The Scanner verifies OS-level port availability via net.Listen()
// bind-and-release probes. FindFreePort searches sequentially upward
// from a starting port (8080 by default) across a window of 100
// candidates, returning the first bindable port or an exhaustion error.
package port
