// Package platform declares the interfaces the runtime consumes from the
// messaging platform transport, and the event payloads the transport
// publishes onto the internal bus. The wire protocol itself lives outside
// this repository.
package platform
