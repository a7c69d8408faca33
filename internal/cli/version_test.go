package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveVersion restores the build info globals when the test ends.
func saveVersion(t *testing.T) {
	t.Helper()
	v, c, d, rv := version, commit, date, rootCmd.Version
	t.Cleanup(func() {
		version, commit, date = v, c, d
		rootCmd.Version = rv
	})
}

func TestVersionOutput(t *testing.T) {
	saveVersion(t)
	version = "1.2.3"
	commit = "abc1234"
	date = "2025-01-08T12:00:00Z"

	var buf bytes.Buffer
	printVersion(&buf, false)
	output := buf.String()

	assert.Contains(t, output, "sysmon v1.2.3", "should show version with v prefix")
	assert.Contains(t, output, "commit: abc1234", "should show commit")
	assert.Contains(t, output, "built: 2025-01-08T12:00:00Z", "should show build date")
	assert.Contains(t, output, "go: "+runtime.Version(), "should show Go version")
	assert.Contains(t, output, "os/arch: "+runtime.GOOS+"/"+runtime.GOARCH, "should show os/arch")
}

func TestVersionOutputShort(t *testing.T) {
	saveVersion(t)
	version = "1.2.3"

	var buf bytes.Buffer
	printVersion(&buf, true)

	assert.Equal(t, "1.2.3", strings.TrimSpace(buf.String()), "short output should only show version")
}

func TestVersionOutputDev(t *testing.T) {
	saveVersion(t)
	version = "dev"

	var buf bytes.Buffer
	printVersion(&buf, false)

	assert.Contains(t, buf.String(), "sysmon dev", "dev version should not have v prefix")
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "dev version",
			input: "dev",
			want:  "dev",
		},
		{
			name:  "version without prefix",
			input: "1.2.3",
			want:  "v1.2.3",
		},
		{
			name:  "version with prefix",
			input: "v1.2.3",
			want:  "v1.2.3",
		},
		{
			name:  "version with prerelease",
			input: "1.2.3-beta.1",
			want:  "v1.2.3-beta.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatVersion(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCommandHasShortFlag(t *testing.T) {
	flag := versionCmd.Flags().Lookup("short")
	require.NotNil(t, flag, "version command should have --short flag")
	assert.Equal(t, "bool", flag.Value.Type())
	assert.Equal(t, "false", flag.DefValue)
}

func TestSetVersionInfo(t *testing.T) {
	saveVersion(t)

	SetVersionInfo("2.0.0", "def5678", "2025-06-15T10:00:00Z")

	assert.Equal(t, "2.0.0", version)
	assert.Equal(t, "def5678", commit)
	assert.Equal(t, "2025-06-15T10:00:00Z", date)
	assert.Equal(t, "v2.0.0", rootCmd.Version)
	assert.Equal(t, "2.0.0", GetVersion())
}
