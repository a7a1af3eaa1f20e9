package cache

import (
	"errors"
	"fmt"

	c "github.com/d0ngw/counters/common"
	"github.com/gomodule/redigo/redis"
)

// Redis命令
const (
	SET    = "SET"
	GET    = "GET"
	MGET   = "MGET"
	DEL    = "DEL"
	EXISTS = "EXISTS"
	EXPIRE = "EXPIRE"
	SETNX  = "SETNX"
	INCRBY = "INCRBY"
	SCAN   = "SCAN"
)

// ReplyOK redis的OK响应
const ReplyOK = "OK"

var errNoServer = errors.New("can't find redis server")

// RedisClient 按group组织的Redis客户端
type RedisClient struct {
	groups map[string][]*RedisServer
}

// NewRedisClient 使用groups创建RedisClient
func NewRedisClient(groups map[string][]*RedisServer) *RedisClient {
	return &RedisClient{groups: groups}
}

// NewRedisClientWithConf 使用已经解析的RedisConf创建RedisClient
func NewRedisClientWithConf(conf *RedisConf) *RedisClient {
	return &RedisClient{groups: conf.groups}
}

// GetGroupServers 取得group对应的Redis实例列表
func (p *RedisClient) GetGroupServers(group string) ([]*RedisServer, error) {
	servers := p.groups[group]
	if len(servers) == 0 {
		return nil, fmt.Errorf("can't find redis group %s", group)
	}
	return servers, nil
}

// findServer 根据param的group和key选择Redis实例
func (p *RedisClient) findServer(param Param) (*RedisServer, error) {
	servers := p.groups[param.Group()]
	count := len(servers)
	if count == 0 {
		return nil, errNoServer
	}
	if count == 1 {
		return servers[0], nil
	}
	return servers[c.Fnv32Hashcode(param.Key())%count], nil
}

// Do 在param指定的实例上执行f
func (p *RedisClient) Do(param Param, f func(conn redis.Conn) (interface{}, error)) (interface{}, error) {
	server, err := p.findServer(param)
	if err != nil {
		return nil, err
	}
	conn, err := server.GetConn()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.Errorf("close conn err:%v", err)
		}
	}()
	return f(conn)
}

// Set 设置param.Key的值为value,如果param.Expire>0同时设置过期时间
func (p *RedisClient) Set(param Param, value interface{}) error {
	reply, err := p.Do(param, func(conn redis.Conn) (interface{}, error) {
		if param.Expire() > 0 {
			return conn.Do(SET, param.Key(), value, "EX", param.Expire())
		}
		return conn.Do(SET, param.Key(), value)
	})
	if err != nil {
		return err
	}
	if ok, _ := redis.String(reply, nil); ok != ReplyOK {
		return fmt.Errorf("set %s fail,reply:%v", param.Key(), reply)
	}
	return nil
}

// SetNX 当param.Key不存在时设置其值为value,返回是否设置成功
func (p *RedisClient) SetNX(param Param, value interface{}) (seted bool, err error) {
	reply, err := p.Do(param, func(conn redis.Conn) (interface{}, error) {
		return conn.Do(SETNX, param.Key(), value)
	})
	if err != nil {
		return false, err
	}
	return redis.Bool(reply, nil)
}

// Get 取得param.Key的值,ok表示key是否存在
func (p *RedisClient) Get(param Param) (reply interface{}, ok bool, err error) {
	reply, err = p.Do(param, func(conn redis.Conn) (interface{}, error) {
		return conn.Do(GET, param.Key())
	})
	if err != nil {
		return nil, false, err
	}
	if reply == nil {
		return nil, false, nil
	}
	return reply, true, nil
}

// GetInt64 取得param.Key的int64值
func (p *RedisClient) GetInt64(param Param) (val int64, ok bool, err error) {
	reply, ok, err := p.Get(param)
	if err != nil || !ok {
		return 0, ok, err
	}
	val, err = redis.Int64(reply, nil)
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// GetString 取得param.Key的字符串值
func (p *RedisClient) GetString(param Param) (val string, ok bool, err error) {
	reply, ok, err := p.Get(param)
	if err != nil || !ok {
		return "", ok, err
	}
	val, err = redis.String(reply, nil)
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Del 删除param.Key,返回key是否存在并被删除
func (p *RedisClient) Del(param Param) (deleted bool, err error) {
	reply, err := p.Do(param, func(conn redis.Conn) (interface{}, error) {
		return conn.Do(DEL, param.Key())
	})
	if err != nil {
		return false, err
	}
	return redis.Bool(reply, nil)
}

// Exists 判断param.Key是否存在
func (p *RedisClient) Exists(param Param) (exist bool, err error) {
	reply, err := p.Do(param, func(conn redis.Conn) (interface{}, error) {
		return conn.Do(EXISTS, param.Key())
	})
	if err != nil {
		return false, err
	}
	return redis.Bool(reply, nil)
}

// Eval 在param指定的实例上执行script,param.Key作为KEYS[1],args作为ARGV
func (p *RedisClient) Eval(param Param, script *redis.Script, args ...interface{}) (interface{}, error) {
	return p.Do(param, func(conn redis.Conn) (interface{}, error) {
		scriptArgs := append([]interface{}{param.Key()}, args...)
		return script.Do(conn, scriptArgs...)
	})
}

// SetObject 将value用msgpack序列化后存入param.Key
func (p *RedisClient) SetObject(param Param, value interface{}) error {
	bytes, err := MsgPackEncodeBytes(value)
	if err != nil {
		return err
	}
	return p.Set(param, bytes)
}

// GetObject 取得param.Key的值并用msgpack反序列化到dest
func (p *RedisClient) GetObject(param Param, dest interface{}) (ok bool, err error) {
	reply, ok, err := p.Get(param)
	if err != nil || !ok {
		return ok, err
	}
	bytes, err := redis.Bytes(reply, nil)
	if err != nil {
		return false, err
	}
	return true, MsgPackDecodeBytes(bytes, dest)
}
