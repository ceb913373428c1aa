package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type MockResponseWriterState struct {
	LastWrittenBytes  []byte
	WrittenStatusCode *int
	Headers           http.Header
}

/**
a ResponseWriter for handler tests that remembers what was written to it
*/
type MockResponseWriter struct {
	State *MockResponseWriterState
}

func NewMockResponseWriter() MockResponseWriter {
	return MockResponseWriter{
		State: &MockResponseWriterState{Headers: http.Header{}},
	}
}

func (mock MockResponseWriter) Header() http.Header {
	return mock.State.Headers
}

func (mock MockResponseWriter) Write(msg []byte) (int, error) {
	mock.State.LastWrittenBytes = append(mock.State.LastWrittenBytes, msg...)
	return len(msg), nil
}

func (mock MockResponseWriter) LastWrittenString() string {
	return string(mock.State.LastWrittenBytes)
}

/*
convenience function to parse the last written content from json into a generic map
*/
func (mock MockResponseWriter) LastWrittenJson() (map[string]interface{}, error) {
	var rtn map[string]interface{}

	if len(mock.State.LastWrittenBytes) == 0 {
		return nil, errors.New("No content has yet been written")
	}
	marshalErr := json.Unmarshal(mock.State.LastWrittenBytes, &rtn)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return rtn, nil
}

func (mock MockResponseWriter) WriteHeader(statusCode int) {
	statusCodeCopy := statusCode
	mock.State.WrittenStatusCode = &statusCodeCopy
}

/*
the status code that was written, or 0 if WriteHeader has not been called
*/
func (mock MockResponseWriter) StatusCode() int {
	if mock.State.WrittenStatusCode == nil {
		return 0
	}
	return *mock.State.WrittenStatusCode
}

type MockReadCloserState struct {
	WasClosed bool
	Offset    int
}

/**
a request body for handler tests, that serves DataToRead and remembers whether it was closed
*/
type MockReadCloser struct {
	State      *MockReadCloserState
	DataToRead []byte
}

func NewMockReadCloser(content []byte) MockReadCloser {
	return MockReadCloser{
		State:      &MockReadCloserState{},
		DataToRead: content,
	}
}

func (c MockReadCloser) Close() error {
	c.State.WasClosed = true
	return nil
}

func (c MockReadCloser) Read(p []byte) (n int, err error) {
	if c.State.WasClosed {
		return 0, io.ErrClosedPipe
	}
	if c.State.Offset >= len(c.DataToRead) {
		return 0, io.EOF
	}
	n = copy(p, c.DataToRead[c.State.Offset:])
	c.State.Offset += n
	return n, nil
}
