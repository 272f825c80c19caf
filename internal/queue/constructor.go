package queue

import (
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/service"
)

type Queue struct {
	connect service.ConnectFunc
}

// NewQueue builds the task handlers. connect completes a platform
// connection once its delay has passed.
func NewQueue(connect service.ConnectFunc) *Queue {
	return &Queue{
		connect: connect,
	}
}

const TaskTypeConnectPlatform = "platform:connect"

type ConnectPlatformPayload struct {
	UserID   string          `json:"user_id"`
	Platform models.Platform `json:"platform"`
}
