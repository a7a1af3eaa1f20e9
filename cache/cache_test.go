package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncDec(t *testing.T) {
	redisServer := &RedisServer{
		ID:   "test",
		Host: "127.0.0.1",
		Port: 6379,
	}
	bytes, err := MsgPackEncodeBytes(redisServer)
	assert.Nil(t, err)

	server := &RedisServer{}
	err = MsgPackDecodeBytes(bytes, server)
	assert.Nil(t, err)
	assert.Equal(t, *redisServer, *server)

	bytes, err = MsgPackEncodeBytes(nil)
	assert.Nil(t, err)

	var v *int
	err = MsgPackDecodeBytes(bytes, &v)
	assert.Nil(t, err)
	assert.Nil(t, v)
}

func TestParamConf(t *testing.T) {
	param := NewParamConf("test", "c.", 0)
	assert.Equal(t, "test", param.Group())
	assert.Equal(t, "c.", param.KeyPrefix())
	assert.Equal(t, 0, param.Expire())

	key := param.NewParamKey("clicks")
	assert.Equal(t, "c.clicks", key.Key())
	assert.Equal(t, "test", key.Group())

	withExpire := key.NewWithExpire(30)
	assert.Equal(t, 30, withExpire.Expire())
	assert.Equal(t, 0, key.Expire())
	//共享同一ParamConf的key不受影响
	assert.Equal(t, 0, param.Expire())
	assert.Equal(t, 0, param.NewParamKey("other").Expire())

	prefixed := param.NewWithKeyPrefix("x.")
	assert.Equal(t, "c.x.", prefixed.KeyPrefix())
	assert.Equal(t, "c.x.k", prefixed.NewParamKey("k").Key())
}

func TestRedisConfParse(t *testing.T) {
	conf := &RedisConf{
		Servers: []*RedisServer{
			{ID: "s1", Host: "127.0.0.1", Port: 6379},
			{ID: "s2", Host: "127.0.0.1", Port: 6380},
		},
		Groups: map[string][]string{"counter": {"s2", "s1"}},
	}
	err := conf.Parse()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(conf.groups["counter"]))
	//组内按server id排序
	assert.Equal(t, "s1", conf.groups["counter"][0].ID)

	client := NewRedisClientWithConf(conf)
	servers, err := client.GetGroupServers("counter")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(servers))

	_, err = client.GetGroupServers("missing")
	assert.NotNil(t, err)
}

func TestRedisConfParseEmptyGroup(t *testing.T) {
	conf := &RedisConf{
		Servers: []*RedisServer{
			{ID: "s1", Host: "127.0.0.1", Port: 6379},
		},
		Groups: map[string][]string{"counter": {}},
	}
	err := conf.Parse()
	assert.NotNil(t, err)
}

func TestRedisConfParseDuplicate(t *testing.T) {
	conf := &RedisConf{
		Servers: []*RedisServer{
			{ID: "s1", Host: "127.0.0.1", Port: 6379},
			{ID: "s1", Host: "127.0.0.1", Port: 6380},
		},
	}
	err := conf.Parse()
	assert.NotNil(t, err)
}
