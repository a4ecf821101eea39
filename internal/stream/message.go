package stream

import (
	"encoding/json"

	"launchcontrol/internal/models"
)

// LaunchMessage is the wire envelope sent to stream clients.
type LaunchMessage struct {
	Type string               `json:"type"`
	Data *models.LaunchRecord `json:"data"`
}

func encodeLaunchMessage(record *models.LaunchRecord) ([]byte, error) {
	return json.Marshal(LaunchMessage{
		Type: "launch",
		Data: record,
	})
}
