package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetails(t *testing.T) {
	var buf bytes.Buffer
	orig := logWriter
	logWriter = &buf
	t.Cleanup(func() { logWriter = orig })

	Details("Error: validation failed\n  Field: package.version")
	assert.Equal(t, "Error: validation failed\n  Field: package.version\n", buf.String())
}
