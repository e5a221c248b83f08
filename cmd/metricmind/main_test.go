package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["generate"])
	assert.True(t, names["similar"])
	assert.True(t, names["serve"])
}

func TestGenerateFlags(t *testing.T) {
	require.NotNil(t, generateCmd.Flags().Lookup("file"))
	require.NotNil(t, generateCmd.Flags().Lookup("config"))

	// context is optional and defaults to empty
	ctxFlag := generateCmd.Flags().Lookup("context")
	require.NotNil(t, ctxFlag)
	assert.Equal(t, "", ctxFlag.DefValue)
	assert.NotContains(t, ctxFlag.Annotations, "cobra_annotation_bash_completion_one_required_flag")
}

func TestSimilarFlags(t *testing.T) {
	require.NotNil(t, similarCmd.Flags().Lookup("query"))

	top := similarCmd.Flags().Lookup("top")
	require.NotNil(t, top)
	assert.Equal(t, "3", top.DefValue)
}

func TestServeFlags(t *testing.T) {
	port := serveCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "0", port.DefValue)
}
