// Package events provides translation event bus implementations.
//
// Implementations:
//   - memory: in-process fan-out (default)
//   - redis: Redis Streams, shared by every relay instance
package events
