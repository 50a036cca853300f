// Package menu exposes the host's menu namespace through entity proxies.
// A Menu or MenuItem created here physically lives in the host process;
// the proxy forwards every operation over the invoke client using its
// opaque resource handle plus an explicit kind tag, and activation events
// arrive asynchronously on the channel returned by Listen.
package menu
