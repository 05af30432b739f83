package awscloud

import (
	"errors"

	"github.com/aws/smithy-go"
)

var ErrServiceNotFound = errors.New("ecs service not found")
var ErrInstanceNotFound = errors.New("db instance not found")

// IsTransient reports whether err is a throttling or availability fault worth
// retrying. Invalid-state faults are never transient; they are handled as
// skips before an error ever reaches the retrier.
func IsTransient(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.ErrorCode() {
	case "Throttling",
		"ThrottlingException",
		"TooManyRequestsException",
		"RequestLimitExceeded",
		"RequestTimeout",
		"ServiceUnavailable",
		"InternalFailure":
		return true
	}
	return false
}
