package app

import "voxchat/internal/speech"

// ReplyMsg carries a successful assistant reply.
type ReplyMsg struct {
	Text string
}

// ServerErrorMsg carries a failure the endpoint reported itself.
type ServerErrorMsg struct {
	Message string
}

// NetworkErrorMsg is sent when the request never completed or the
// response body was undecodable.
type NetworkErrorMsg struct {
	Err error
}

// ListenStartedMsg is sent when the recognizer confirmed a listening session.
type ListenStartedMsg struct{}

// ListenFailedMsg is sent when the recognizer refused to start.
type ListenFailedMsg struct {
	Err error
}

// RecognitionEventMsg wraps a streamed recognizer event.
type RecognitionEventMsg struct {
	Event speech.Event
}

// RecognitionErrorMsg is sent when the recognizer event stream breaks.
type RecognitionErrorMsg struct {
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
