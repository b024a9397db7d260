package db

import "errors"

// ErrKeyNotFound is returned by reads of a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Command names recorded in Error.Op.
const (
	OpDel     = "DEL"
	OpExec    = "EXEC"
	OpExists  = "EXISTS"
	OpExpire  = "EXPIRE"
	OpGet     = "GET"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpIncr    = "INCR"
	OpScan    = "SCAN"
	OpSet     = "SET"
	OpTTL     = "TTL"
)

// Error records which command failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
