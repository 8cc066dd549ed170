package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// dataParam carries a JSON payload for clients that can only send form posts
// or query strings.
const dataParam = "data"

var errEmptyBody = errors.New("empty request body")

// decodeLenient fills dst from a JSON body, falling back to a JSON document in
// the "data" form or query parameter.
func decodeLenient(c *gin.Context, dst any) error {
	var raw []byte
	if c.Request.Body != nil {
		var err error
		raw, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && json.Valid(raw) {
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("decode body: %w", err)
		}
		return nil
	}

	data := c.PostForm(dataParam)
	if data == "" {
		data = c.Query(dataParam)
	}
	if data == "" {
		if len(raw) > 0 {
			return errors.New("request body is not valid JSON")
		}
		return errEmptyBody
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("decode %s parameter: %w", dataParam, err)
	}
	return nil
}

// isBodyTooLarge reports whether err came from http.MaxBytesReader.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
