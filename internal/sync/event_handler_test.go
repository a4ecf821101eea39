package sync

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchcontrol/internal/launch"
	"launchcontrol/pkg/config"
)

func TestLaunchEventHandler(t *testing.T) {
	handler := LaunchEventHandler(&Syncer{}, time.Second)

	t.Run("Undecodable Body Is Dropped Not Requeued", func(t *testing.T) {
		// A body that can never unmarshal must be classified as permanent,
		// otherwise the broker redelivers the same payload in a loop.
		err := handler([]byte("not json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, config.ErrDropMessage))
	})

	t.Run("Unknown Action Is Acked", func(t *testing.T) {
		body, err := json.Marshal(launch.LaunchEvent{
			Action:   "token_retired",
			BaseMint: "So11111111111111111111111111111111111111112",
		})
		require.NoError(t, err)
		assert.NoError(t, handler(body))
	})

	t.Run("Missing Mint Is Acked", func(t *testing.T) {
		body, err := json.Marshal(launch.LaunchEvent{Action: "token_launched"})
		require.NoError(t, err)
		assert.NoError(t, handler(body))
	})
}
