// utils/http.go
package utils

import (
	"net/http"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 120 * time.Second, // generous: LLM streams can run long
}
