package dynamo

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrorCode returns the AWS error code carried anywhere in err's chain,
// e.g. "ProvisionedThroughputExceededException".
func ErrorCode(err error) (string, bool) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode(), true
	}
	return "", false
}

// IsThrottled reports whether err is DynamoDB pushing back on request rate
func IsThrottled(err error) bool {
	code, ok := ErrorCode(err)
	if !ok {
		return false
	}
	switch code {
	case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
		return true
	}
	return false
}
