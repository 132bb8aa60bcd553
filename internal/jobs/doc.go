// Package jobs manages background job queuing, processing, and lifecycle.
// Jobs are persisted before they are queued so that work accepted by an
// HTTP request (outbound email, for now) survives a restart: on start the
// runner reloads unfinished jobs and rebuilds them through a registry of
// per-type factories.
package jobs
