package opensearch

import "errors"

var (
	// ErrConnectionFailed indicates the OpenSearch client could not be created
	// due to configuration or network issues.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")

	// ErrRequestFailed indicates the cluster answered a request with an error.
	ErrRequestFailed = errors.New("opensearch request failed")

	ErrNoAddresses   = errors.New("opensearch addresses are not configured")
	ErrInvalidOption = errors.New("invalid opensearch option")
)
