package video

import "context"

// Room is a provisioned video room for one live interview.
type Room struct {
	Name string
	URL  string
}

type Provider interface {
	CreateRoom(ctx context.Context) (*Room, error)
	// CreateMeetingToken mints a join token scoped to one room, with
	// transcription admin rights for the interviewer side.
	CreateMeetingToken(ctx context.Context, roomName string) (string, error)
}
