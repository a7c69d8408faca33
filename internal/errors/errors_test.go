package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrStartup,
		ErrMetric,
		ErrTerminal,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

	// Verify codes are unique
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Top process count must be at least 1",
			suggestion: "Pass -n with a positive number",
		},
		{
			name:       "startup error",
			code:       ErrStartup,
			message:    "Process table unavailable",
			suggestion: "Check that /proc is mounted",
		},
		{
			name:       "terminal error",
			code:       ErrTerminal,
			message:    "sysmon needs an interactive terminal",
			suggestion: "Use 'sysmon snapshot' when piping output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name: "basic error formatting",
			err:  New(ErrConfig, "Invalid configuration", "Check config.yaml syntax"),
			expectedParts: []string{
				"Invalid configuration",
				"Check config.yaml syntax",
			},
		},
		{
			name: "error with failure symbol",
			err:  New(ErrStartup, "Memory statistics unavailable", "Try again"),
			expectedParts: []string{
				"✗",
				"Memory statistics unavailable",
			},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrMetric, "disk metrics unavailable", ""),
			expectedParts: []string{"disk metrics unavailable"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part, "output should contain %q", part)
			}

			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part, "output should not contain %q", part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	wrapped := Wrap(cause, "process I/O unavailable")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrMetric, wrapped.Code, "Wrap should default to ErrMetric code")
	assert.Equal(t, "process I/O unavailable", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("file not found")
	wrapped := WrapWithCode(cause, ErrConfig, "Failed to load config", "Run 'sysmon config init'")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrConfig, wrapped.Code)
	assert.Equal(t, "Failed to load config", wrapped.Message)
	assert.Equal(t, "Run 'sysmon config init'", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "file not found")
}

func TestMetricUnavailable(t *testing.T) {
	cause := errors.New("not implemented yet")
	err := MetricUnavailable("network", cause)

	assert.Equal(t, ErrMetric, err.Code)
	assert.Equal(t, "network metrics unavailable", err.Message)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsCode(err, ErrMetric))
}

func TestErrorsAs(t *testing.T) {
	wrapped := New(ErrConfig, "Config error", "Fix config")

	var smErr *Error
	ok := errors.As(wrapped, &smErr)

	assert.True(t, ok)
	assert.Equal(t, ErrConfig, smErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrStartup))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("open /proc/meminfo: no such file or directory"),
		ErrStartup,
		"Cannot read memory statistics",
		"sysmon needs access to the OS resource counters",
	)

	output := err.Error()
	lines := strings.Split(output, "\n")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"), "First line should start with failure symbol")
	assert.Contains(t, lines[0], "Cannot read memory statistics")
	assert.Contains(t, output, "/proc/meminfo")
}
