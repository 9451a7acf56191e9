// Package task manages background job queuing, processing, and lifecycle.
// It provides mechanisms for asynchronous execution of long-running
// operations like library exports, ensuring they don't block HTTP request
// handling while exposing persisted status and progress to polling clients.
package task
