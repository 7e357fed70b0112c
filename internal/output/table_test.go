package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	out := NewTable("SOURCE", "DEST").
		Row("/workspace/assets/customize.sh", "customize.sh").
		Row("/workspace/target/x/release/bin", "system/bin/bin").
		String()

	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "DEST")
	assert.Contains(t, out, "customize.sh")
	assert.Contains(t, out, "system/bin/bin")
}
