package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// JobState represents the lifecycle state of a relay job.
type JobState string

const (
	StatePending    JobState = "pending"
	StateProcessing JobState = "processing"
	StateComplete   JobState = "complete"
	StateError      JobState = "error"
)

// IsTerminal returns true if the state is final.
func (s JobState) IsTerminal() bool {
	return s == StateComplete || s == StateError
}

// RelayRequest is everything needed to execute a job on behalf of the client.
type RelayRequest struct {
	Target  string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// Job is one registered unit of asynchronous work.
//
// Result is set only in StateComplete and FailureReason only in StateError.
// Generation is assigned by the registry on every insert so that an execution
// started for a replaced record can tell it no longer owns the id.
type Job struct {
	ID            string          `json:"id"`
	State         JobState        `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Request       RelayRequest    `json:"request"`
	Result        json.RawMessage `json:"response,omitempty"`
	FailureReason string          `json:"error,omitempty"`
	Generation    uint64          `json:"-"`
}

// Clone returns a copy that shares no mutable memory with j.
func (j *Job) Clone() *Job {
	c := *j
	if j.Result != nil {
		c.Result = append(json.RawMessage(nil), j.Result...)
	}
	if j.Request.Headers != nil {
		c.Request.Headers = make(map[string]string, len(j.Request.Headers))
		for k, v := range j.Request.Headers {
			c.Request.Headers[k] = v
		}
	}
	return &c
}

// Task identifies one scheduled execution of a job.
type Task struct {
	ID         string
	Generation uint64
	Request    RelayRequest
}

// RegisterRequest is the body of POST /api/poll-register.
type RegisterRequest struct {
	ID      string            `json:"id" form:"id"`
	URL     string            `json:"url" form:"url"`
	Method  string            `json:"method" form:"method"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body"`
}

// Validate reports ErrInvalidRequest when the id or target is missing.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.URL) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// RelayRequest converts the registration into the stored request.
// A JSON string body is unwrapped; any other JSON value is kept compacted.
func (r *RegisterRequest) RelayRequest() RelayRequest {
	return RelayRequest{
		Target:  strings.TrimSpace(r.URL),
		Method:  strings.ToUpper(strings.TrimSpace(r.Method)),
		Headers: r.Headers,
		Body:    normalizeBody(r.Body),
	}
}

func normalizeBody(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// RegisterResponse acknowledges a registration.
type RegisterResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// StatusRegistered is the acknowledgement status of a successful registration.
const StatusRegistered = "registered"

// PollResult is what a single poll observes.
type PollResult struct {
	State         JobState        `json:"status"`
	Result        json.RawMessage `json:"response,omitempty"`
	FailureReason string          `json:"error,omitempty"`
}
