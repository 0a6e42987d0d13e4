// Package common contains shared constants and sentinel errors used across
// filedrop components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName is the gRPC metadata key echoed back with the id
// assigned to every streaming request.
const RequestIDHeaderName = "x-request-id"

// DefaultStreamChunkSize is the size of a single I/O chunk moved between a
// storage object and the output sink.
const DefaultStreamChunkSize = 64 * 1024
