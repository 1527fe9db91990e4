package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgValue(t *testing.T) {
	args := []string{"--scenes=/data/fire", "--output", "/tmp/run"}
	assert.Equal(t, "/data/fire", argValue(args, "scenes"))
	assert.Equal(t, "/tmp/run", argValue(args, "output"))
	assert.Equal(t, "", argValue(args, "port"))
	assert.Equal(t, "", argValue([]string{"--output"}, "output"))
}
