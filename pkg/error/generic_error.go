package error

// GenericError is an error that knows how it should be reported over HTTP.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
