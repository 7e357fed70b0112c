package output

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWithSpinner_Inline(t *testing.T) {
	called := false
	err := RunWithSpinner(context.Background(), func() error {
		called = true
		return nil
	}, WithoutSpinner())

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestRunWithSpinner_ReturnsActionError(t *testing.T) {
	want := errors.New("cargo exploded")
	err := RunWithSpinner(context.Background(), func() error { return want }, WithTitle("building"), WithoutSpinner())
	assert.ErrorIs(t, err, want)
}
