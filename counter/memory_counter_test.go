package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemCounter(t *testing.T) {
	counter := NewMemCounter("mem")
	assert.Nil(t, counter.Init())

	created, err := counter.Get("clicks")
	assert.Nil(t, err)
	assert.Nil(t, created)

	c1, ok, err := counter.Create("clicks")
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 0, c1.Value)

	_, ok, err = counter.Create("clicks")
	assert.Nil(t, err)
	assert.False(t, ok)

	for i := 1; i <= 5; i++ {
		value, ok, err := counter.Incr("clicks", 1)
		assert.Nil(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, i, value)
	}

	got, err := counter.Get("clicks")
	assert.Nil(t, err)
	assert.EqualValues(t, 5, got.Value)

	_, ok, err = counter.Incr("missing", 1)
	assert.Nil(t, err)
	assert.False(t, ok)

	assert.Nil(t, counter.Del("clicks"))
	assert.Nil(t, counter.Del("clicks"))

	got, err = counter.Get("clicks")
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestMemCounterGetAll(t *testing.T) {
	counter := NewMemCounter("mem")

	all, err := counter.GetAll()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(all))

	for _, name := range []string{"b", "c", "a"} {
		_, _, err := counter.Create(name)
		assert.Nil(t, err)
	}
	counter.Incr("c", 2)

	all, err = counter.GetAll()
	assert.Nil(t, err)
	assert.Equal(t, 3, len(all))
	//按名称排序
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "b", all[1].Name)
	assert.Equal(t, "c", all[2].Name)
	assert.EqualValues(t, 2, all[2].Value)
}

func TestCheckName(t *testing.T) {
	assert.Nil(t, CheckName("clicks"))
	assert.NotNil(t, CheckName(""))
	assert.NotNil(t, CheckName("a:b"))
}
