package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionBashGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenBashCompletion(&buf)

	require.NoError(t, err)
	output := buf.String()

	// Verify basic bash completion structure
	assert.Contains(t, output, "# bash completion for sysmon")
	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "complete -o default -F __start_sysmon sysmon")
}

func TestCompletionZshGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenZshCompletion(&buf)

	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "#compdef sysmon")
	assert.Contains(t, output, "_sysmon()")
}

func TestCompletionFishGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenFishCompletion(&buf, true)

	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "fish completion for sysmon")
	assert.Contains(t, output, "complete -c sysmon")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenPowerShellCompletion(&buf)

	require.NoError(t, err)
	output := buf.String()

	// Case insensitive check
	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)

	assert.Error(t, completionCmd.Args(completionCmd, []string{}))
	assert.Error(t, completionCmd.Args(completionCmd, []string{"tcsh"}))
	assert.NoError(t, completionCmd.Args(completionCmd, []string{"zsh"}))
}

func TestCompletionCommandWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	t.Cleanup(func() { completionCmd.SetOut(nil) })

	err := completionCmd.RunE(completionCmd, []string{"fish"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "complete -c sysmon")
}
