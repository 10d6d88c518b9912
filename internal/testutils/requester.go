package testutils

import (
	"context"
	"encoding/json"
)

// DoFunc matches client.Requester.Do and is meant for gomock DoAndReturn.
type DoFunc func(ctx context.Context, method, path string, body, out interface{}) error

// RespondWith returns a DoFunc that decodes payload into out, the way a real
// response body would be decoded.
func RespondWith(payload interface{}) DoFunc {
	return func(ctx context.Context, method, path string, body, out interface{}) error {
		if out == nil || payload == nil {
			return nil
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}
}

// FailWith returns a DoFunc that always fails with err
func FailWith(err error) DoFunc {
	return func(ctx context.Context, method, path string, body, out interface{}) error {
		return err
	}
}

// CaptureBody returns a DoFunc that stores the JSON encoding of the request
// body in dst and then responds with payload.
func CaptureBody(dst *[]byte, payload interface{}) DoFunc {
	respond := RespondWith(payload)
	return func(ctx context.Context, method, path string, body, out interface{}) error {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		*dst = data
		return respond(ctx, method, path, body, out)
	}
}
