package assistant

import "HomeFinder/pkg/response"

var (
	ErrConversationNotFound = response.NewError(404, "conversation not found")
	ErrPropertyNotFound     = response.NewError(404, "property not found")
	ErrPreferenceNotFound   = response.NewError(404, "preference profile not found")
	ErrUnsupportedEvent     = response.NewError(400, "unsupported event type")
	ErrInvalidAction        = response.NewError(400, "invalid property action")
	ErrDuplicateEvent       = response.NewError(409, "event already processed")
	ErrRateLimitExceeded    = response.NewError(429, "rate limit exceeded")
	ErrTransportUnavailable = response.NewError(503, "chat transport unavailable")
)
