// Package websocket provides the live translation feed.
//
// Each connection receives every translation event published after it was
// opened. Slow clients lose events instead of slowing the relay down.
package websocket
