package bungie

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wrapper every platform response comes in.
type Envelope struct {
	ErrorCode       int               `json:"ErrorCode"`
	ErrorStatus     string            `json:"ErrorStatus"`
	Message         string            `json:"Message"`
	ThrottleSeconds int               `json:"ThrottleSeconds"`
	MessageData     map[string]string `json:"MessageData"`
	Response        json.RawMessage   `json:"Response"`
}

// RemoteServiceError is returned when the platform answers with anything but
// the success code/status pair. The fields are kept verbatim.
type RemoteServiceError struct {
	Code    int
	Status  string
	Message string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// Validate checks the status pair, it must be called before the payload is
// touched.
func (e Envelope) Validate() error {
	if e.ErrorCode != PlatformSuccess || e.ErrorStatus != PlatformSuccessStatus {
		return &RemoteServiceError{
			Code:    e.ErrorCode,
			Status:  e.ErrorStatus,
			Message: e.Message,
		}
	}
	return nil
}

// DecodePayload unmarshals Envelope.Response into T. A missing payload
// leaves T at its zero value.
func DecodePayload[T any](e Envelope) (T, error) {
	var out T
	if len(e.Response) == 0 || string(e.Response) == "null" {
		return out, nil
	}
	err := json.Unmarshal(e.Response, &out)
	if err != nil {
		return out, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}
