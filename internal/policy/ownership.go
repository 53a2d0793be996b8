// Package policy holds the access rules applied to stories.
package policy

import (
	"errors"

	"github.com/crucial707/storyshare/internal/models"
)

// ErrNotOwner is returned by RequireOwner when the caller does not own the story.
var ErrNotOwner = errors.New("caller does not own story")

// IsOwner reports whether callerID owns story. An empty caller id never owns anything.
func IsOwner(story models.Story, callerID string) bool {
	return callerID != "" && story.UserID == callerID
}

// RequireOwner returns ErrNotOwner unless callerID owns story.
func RequireOwner(story models.Story, callerID string) error {
	if !IsOwner(story, callerID) {
		return ErrNotOwner
	}
	return nil
}

// CanView reports whether callerID may read story: public stories are visible to everyone,
// private ones only to their owner.
func CanView(story models.Story, callerID string) bool {
	return story.IsPublic() || IsOwner(story, callerID)
}
