package errcode

// Error code convention:
// - 0: no error
// - 4xxx: recoverable business errors (resource missing, permission miss)
// - 5xxx: system errors that interrupt the request
const (
	OK              = 0
	ResourceMissing = 4004
	SystemError     = 5000
)
