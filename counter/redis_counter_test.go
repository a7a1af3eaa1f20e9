package counter

import (
	"net"
	"testing"
	"time"

	"github.com/d0ngw/counters/cache"
	"github.com/stretchr/testify/assert"
)

var redisClient *cache.RedisClient

func redisCounterForTest(t *testing.T) *RedisCounter {
	conn, err := net.DialTimeout("tcp", "127.0.0.1:6379", 100*time.Millisecond)
	if err != nil {
		t.Skipf("no local redis:%s", err)
	}
	conn.Close()

	if redisClient == nil {
		var redisConf = cache.RedisConf{
			Servers: []*cache.RedisServer{
				{ID: "test", Host: "127.0.0.1", Port: 6379},
			},
			Groups: map[string][]string{"test": {"test"}},
		}
		if err := redisConf.Parse(); err != nil {
			t.Fatal(err)
		}
		redisClient = cache.NewRedisClientWithConf(&redisConf)
	}

	cacheParam := cache.NewParamConf("test", "ct.", 0)
	counter := NewRedisCounter("test", redisClient, cacheParam)
	assert.Nil(t, counter.Init())
	return counter
}

func TestRedisCounter(t *testing.T) {
	counter := redisCounterForTest(t)

	name := "clicks"
	assert.Nil(t, counter.Del(name))

	got, err := counter.Get(name)
	assert.Nil(t, err)
	assert.Nil(t, got)

	_, ok, err := counter.Incr(name, 1)
	assert.Nil(t, err)
	assert.False(t, ok)

	created, ok, err := counter.Create(name)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 0, created.Value)

	_, ok, err = counter.Create(name)
	assert.Nil(t, err)
	assert.False(t, ok)

	for i := 1; i <= 3; i++ {
		value, ok, err := counter.Incr(name, 1)
		assert.Nil(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, i, value)
	}

	got, err = counter.Get(name)
	assert.Nil(t, err)
	assert.EqualValues(t, 3, got.Value)

	all, err := counter.GetAll()
	assert.Nil(t, err)
	assert.True(t, len(all) >= 1)

	assert.Nil(t, counter.Del(name))
	assert.Nil(t, counter.Del(name))

	got, err = counter.Get(name)
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestRedisCounterRestore(t *testing.T) {
	counter := redisCounterForTest(t)
	persist := newPersistMock()
	counter.Persist = persist

	name := "restore"
	assert.Nil(t, counter.Del(name))
	persist.Store(name, 7)

	//Redis中不存在时从持久化快照恢复
	got, err := counter.Get(name)
	assert.Nil(t, err)
	assert.NotNil(t, got)
	assert.EqualValues(t, 7, got.Value)

	value, ok, err := counter.Incr(name, 1)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 8, value)

	//Del同时删除持久化快照
	assert.Nil(t, counter.Del(name))
	_, found, err := persist.Load(name)
	assert.Nil(t, err)
	assert.False(t, found)
}

func TestRedisCounterInvalidName(t *testing.T) {
	counter := redisCounterForTest(t)
	_, _, err := counter.Create("a:b")
	assert.NotNil(t, err)
	_, err = counter.Get("")
	assert.NotNil(t, err)
}
