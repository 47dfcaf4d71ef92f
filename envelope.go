package client

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const unknownServiceError = "unknown error from Rollbar"

// envelope is the wrapper Rollbar puts around every response body.
type envelope struct {
	Err     *int            `json:"err"`
	Result  json.RawMessage `json:"result"`
	Message *string         `json:"message"`
}

// getResult issues req and decodes the envelope's result into T. It is the
// only path by which endpoint payloads reach the rest of the package; T is
// decoded as-is and its structure is never inspected here.
func getResult[T any](ctx context.Context, c *Client, req request) (result T, err error) {
	if c == nil {
		return result, errors.New("rollbar client is nil")
	}

	started := time.Now()
	defer func() { c.observe(req.op, started, err) }()

	body, err := c.get(ctx, req)
	if err != nil {
		return result, err
	}

	return decodeEnvelope[T](c, req.op, body)
}

func decodeEnvelope[T any](c *Client, op string, body []byte) (T, error) {
	var result T

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.options.requestLogger.Warnf("%s: undecodable envelope", op)
		return result, c.fail(op, ErrDecode, 0, err, "decode envelope: "+err.Error())
	}

	if env.Err == nil {
		c.options.requestLogger.Warnf("%s: envelope without err field", op)
		return result, c.fail(op, ErrDecode, 0, nil, "decode envelope: missing err field")
	}

	if *env.Err != 0 {
		message := unknownServiceError
		if env.Message != nil && *env.Message != "" {
			message = *env.Message
		}

		c.options.requestLogger.Warnf("%s: service reported err=%d", op, *env.Err)
		return result, c.fail(op, ErrService, 0, nil, "rollbar: "+message)
	}

	if len(env.Result) == 0 || string(env.Result) == "null" {
		c.options.requestLogger.Warnf("%s: success envelope without result", op)
		return result, c.fail(op, ErrMissingResult, 0, nil, "missing result")
	}

	if err := json.Unmarshal(env.Result, &result); err != nil {
		c.options.requestLogger.Warnf("%s: unexpected result shape", op)
		return result, c.fail(op, ErrDecode, 0, err, "decode result: "+err.Error())
	}

	return result, nil
}
