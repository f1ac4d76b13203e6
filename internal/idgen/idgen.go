package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier as string. Tests may swap
// it for Sequence to get predictable ids.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier using NewFunc.
func New() string { return NewFunc() }

// Sequence returns a generator producing prefix-1, prefix-2, ...
func Sequence(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}
