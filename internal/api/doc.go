// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the application services and maps
// their errors onto status codes and error kinds.
package api
