package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnixMills(t *testing.T) {
	now := time.Now()
	millis := UnixMills(now)
	assert.EqualValues(t, now.UnixNano()/int64(time.Millisecond), millis)

	back := UnixMillsTime(millis)
	assert.EqualValues(t, millis, UnixMills(back))
}
