package lobby

import (
	"github.com/Unnamed1242/mkw-sp/internal/logger"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// ErrorSink latches the first application error of a session. Later errors
// are logged and dropped. The latched error is reported once.
type ErrorSink struct {
	code     uint32
	active   bool
	reported bool
}

// Record latches code if no error is pending. It reports whether code was kept.
func (s *ErrorSink) Record(code uint32) bool {
	if s.active {
		logger.LogWarn("additional error reported: %d (%s)", code, protocol.NewRoomError(code).Message)
		return false
	}
	s.code = code
	s.active = true
	s.reported = false
	return true
}

// Pending returns the latched code.
func (s *ErrorSink) Pending() (uint32, bool) { return s.code, s.active }

// Active reports whether an error is latched.
func (s *ErrorSink) Active() bool { return s.active }

// Drain reports the latched error to h if it has not been reported yet.
func (s *ErrorSink) Drain(h Handler) bool {
	if !s.active || s.reported {
		return false
	}
	s.reported = true
	h.OnError(s.code)
	return true
}
