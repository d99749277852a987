package error

import "net/http"

type InternalServerError string

func (err InternalServerError) Error() string {
	return string(err)
}

func (err InternalServerError) ErrCode() string {
	return "INTERNAL_SERVER_ERROR"
}

func (err InternalServerError) StatusCode() int {
	return http.StatusInternalServerError
}

// QueueFullError is returned when background generation cannot accept more work.
type QueueFullError string

func (err QueueFullError) Error() string {
	return string(err)
}

func (err QueueFullError) ErrCode() string {
	return "QUEUE_FULL"
}

func (err QueueFullError) StatusCode() int {
	return http.StatusServiceUnavailable
}

// ProviderError wraps a failure of the upstream AI provider.
type ProviderError string

func (err ProviderError) Error() string {
	return string(err)
}

func (err ProviderError) ErrCode() string {
	return "PROVIDER_ERROR"
}

func (err ProviderError) StatusCode() int {
	return http.StatusBadGateway
}
