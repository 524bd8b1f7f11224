// Package protocol parses requests of the taskqd wire protocol and defines
// its response tokens. A request is a single UTF-8 line of whitespace
// separated tokens; the first token is the command name, matched exactly.
package protocol

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Commands accepted on the wire.
const (
	CmdAdd  = "ADD"
	CmdGet  = "GET"
	CmdIn   = "IN"
	CmdAck  = "ACK"
	CmdSave = "SAVE"
)

// Response tokens. Protocol errors, wrong arity, and unknown commands all
// collapse into the one RespError token: clients get no distinguishing
// error codes.
var (
	RespError        = []byte("ERROR")
	RespNone         = []byte("NONE")
	RespYes          = []byte("YES")
	RespNo           = []byte("NO")
	RespOK           = []byte("OK")
	RespUnknownQueue = []byte("UNKNOWN-QUEUE")
)

// ErrMalformed reports an unrecognized command, wrong argument count, or
// bytes that do not decode as UTF-8 text.
var ErrMalformed = errors.New("malformed request")

// Request is a parsed wire request. For ADD, Payload holds whatever part of
// the payload arrived in the first read; the server appends continuation
// bytes until DeclaredLen is satisfied.
type Request struct {
	Command     string
	Queue       string
	TaskID      string
	DeclaredLen int
	Payload     string
}

// Parse splits the first chunk of a request into a command and arguments.
// Argument count is validated strictly per command before any side effect
// can occur: a malformed ADD never creates a task.
func Parse(chunk []byte) (Request, error) {
	if !utf8.Valid(chunk) {
		return Request{}, ErrMalformed
	}
	fields := strings.Fields(string(chunk))
	if len(fields) == 0 {
		return Request{}, ErrMalformed
	}

	req := Request{Command: fields[0]}
	switch req.Command {
	case CmdAdd:
		if len(fields) != 4 {
			return Request{}, ErrMalformed
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 {
			return Request{}, ErrMalformed
		}
		req.Queue = fields[1]
		req.DeclaredLen = n
		req.Payload = fields[3]
	case CmdGet:
		if len(fields) != 2 {
			return Request{}, ErrMalformed
		}
		req.Queue = fields[1]
	case CmdIn, CmdAck:
		if len(fields) != 3 {
			return Request{}, ErrMalformed
		}
		req.Queue = fields[1]
		req.TaskID = fields[2]
	case CmdSave:
		if len(fields) != 1 {
			return Request{}, ErrMalformed
		}
	default:
		return Request{}, ErrMalformed
	}
	return req, nil
}
