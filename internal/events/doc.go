// Package events decouples task operations from their side effects.
//
// Services publish a TaskEvent through an EventEmitter without knowing which
// handlers consume it. The notification service is the main handler: it
// records one notification per recipient.
//
// The primary components are:
// - TaskEvent: something happened to a task that recipients should hear about
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
