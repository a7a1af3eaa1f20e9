package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	c "github.com/d0ngw/counters/common"
)

func TestParseRedisURI(t *testing.T) {
	server, err := parseRedisURI("redis://127.0.0.1:6380")
	assert.NoError(t, err)
	assert.EqualValues(t, "127.0.0.1", server.Host)
	assert.EqualValues(t, 6380, server.Port)
	assert.EqualValues(t, "", server.Auth)

	server, err = parseRedisURI("redis://:secret@redis.local")
	assert.NoError(t, err)
	assert.EqualValues(t, "redis.local", server.Host)
	assert.EqualValues(t, 6379, server.Port)
	assert.EqualValues(t, "secret", server.Auth)

	_, err = parseRedisURI("mysql://127.0.0.1:3306")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URI", "redis://10.0.0.1:6379")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "1")

	conf := defaultConf()
	err := applyEnv(conf)
	assert.NoError(t, err)
	assert.EqualValues(t, ":9090", conf.HTTP.Addr)
	assert.EqualValues(t, "10.0.0.1", conf.Redis.Servers[0].Host)
	assert.EqualValues(t, c.EnvDevelopment, conf.LogConfig.Env)
	assert.EqualValues(t, "debug", conf.LogConfig.Level)

	err = conf.Parse()
	assert.NoError(t, err)

	t.Setenv("PORT", "bad")
	err = applyEnv(defaultConf())
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	conf := defaultConf()
	err := c.LoadYAMLFromPath("counters.yaml", conf)
	assert.NoError(t, err)
	assert.EqualValues(t, ":8080", conf.HTTP.Addr)
	assert.EqualValues(t, "counter.", conf.Counter.KeyPrefix)
	assert.NotNil(t, conf.Counter.Persist)
	assert.EqualValues(t, "counters", conf.Counter.Persist.DB.Schema)
}
