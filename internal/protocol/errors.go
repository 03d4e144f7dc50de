package protocol

import "fmt"

// 错误码
const (
	ErrCodeWriteFailed  uint32 = 30003 // 请求写入传输层失败
	ErrCodeEncodeFailed uint32 = 30004 // 请求编码失败
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[uint32]string{
	ErrCodeWriteFailed:  "failed to send room request",
	ErrCodeEncodeFailed: "failed to encode room request",
}

// RoomError is an application error reported to the handler by code.
type RoomError struct {
	Code    uint32
	Message string
}

func (e *RoomError) Error() string {
	return fmt.Sprintf("room error %d: %s", e.Code, e.Message)
}

// NewRoomError builds a RoomError using the message table.
func NewRoomError(code uint32) *RoomError {
	msg, ok := ErrorMessages[code]
	if !ok {
		msg = "unknown error"
	}
	return &RoomError{Code: code, Message: msg}
}
