package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"launchcontrol/internal/launch"
	"launchcontrol/pkg/config"
)

// LaunchEventHandler returns a consumer handler that refreshes a token as
// soon as its launch event arrives. Undecodable bodies are classified as
// permanent so the broker discards them instead of redelivering the same
// payload forever; sync failures stay transient and get requeued.
func LaunchEventHandler(s *Syncer, timeout time.Duration) func([]byte) error {
	return func(msg []byte) error {
		var event launch.LaunchEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return fmt.Errorf("%w: undecodable launch event: %v", config.ErrDropMessage, err)
		}

		if event.Action != "token_launched" || event.BaseMint == "" {
			log.Warnf("Ignoring unexpected launch event: %+v", event)
			return nil
		}

		log.Infof("Received launch event for %s, syncing", event.BaseMint)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.SyncOne(ctx, event.BaseMint); err != nil {
			return fmt.Errorf("failed to sync %s: %w", event.BaseMint, err)
		}
		return nil
	}
}
