package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRequeue(t *testing.T) {
	assert.True(t, shouldRequeue(errors.New("db timeout")), "transient failures go back on the queue")
	assert.False(t, shouldRequeue(ErrDropMessage))
	assert.False(t, shouldRequeue(fmt.Errorf("%w: undecodable body", ErrDropMessage)), "wrapped drop errors are still dropped")
}
