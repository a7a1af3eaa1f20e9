package counter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/d0ngw/counters/cache"
	c "github.com/d0ngw/counters/common"
	"github.com/gomodule/redigo/redis"
)

// Lua
const (
	LUAFALSE int = 0
	LUATRUE  int = 1
)

//只在计数器存在时增加计数,EXISTS和INCRBY在一个脚本中保证原子性
var incrLua = `
local counter_key = KEYS[1]
local delta = tonumber(ARGV[1])

if redis.call("EXISTS", counter_key) == 1 then
    local val = redis.call("INCRBY", counter_key, delta)
    return { 1, val }
end

return { 0, 0 }
`
var incrScript = redis.NewScript(1, incrLua)

// RedisCounter use redis implements Service,可以通过Persist在Redis数据丢失后恢复快照
type RedisCounter struct {
	c.BaseService
	RedisClient *cache.RedisClient
	Persist     Persist //可选
	cacheParam  *cache.ParamConf
}

// NewRedisCounter create RedisCounter service
func NewRedisCounter(name string, redisClient *cache.RedisClient, cacheParam *cache.ParamConf) *RedisCounter {
	return &RedisCounter{
		BaseService: c.BaseService{SName: name},
		RedisClient: redisClient,
		cacheParam:  cacheParam,
	}
}

// GetName implements Service.GetName
func (p *RedisCounter) GetName() string {
	return p.Name()
}

// Init implements Service.Init
func (p *RedisCounter) Init() error {
	if c.HasNil(p.RedisClient, p.cacheParam) {
		return fmt.Errorf("RedisClient,cacheParam must be set")
	}
	if strings.Contains(p.cacheParam.KeyPrefix(), ":") {
		return fmt.Errorf("cacheParam.KeyPrefix %s must not contain `:`", p.cacheParam.KeyPrefix())
	}
	return nil
}

// GetAll implements Service.GetAll
func (p *RedisCounter) GetAll() (counters []*Counter, err error) {
	servers, err := p.RedisClient.GetGroupServers(p.cacheParam.Group())
	if err != nil {
		return nil, err
	}
	prefix := p.cacheParam.KeyPrefix()
	for _, server := range servers {
		serverCounters, err := p.scanServer(server, prefix)
		if err != nil {
			return nil, err
		}
		counters = append(counters, serverCounters...)
	}
	sort.Slice(counters, func(i, j int) bool {
		return counters[i].Name < counters[j].Name
	})
	return counters, nil
}

// scanServer 扫描单个redis实例上prefix下的所有计数器
func (p *RedisCounter) scanServer(server *cache.RedisServer, prefix string) (counters []*Counter, err error) {
	conn, err := server.GetConn()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.Errorf("close conn err:%v", err)
		}
	}()

	var cursor int64
	for {
		reply, err := redis.Values(conn.Do(cache.SCAN, cursor, "MATCH", prefix+"*", "COUNT", 100))
		if err != nil {
			return nil, err
		}
		if len(reply) != 2 {
			return nil, fmt.Errorf("bad scan reply length:%d", len(reply))
		}
		cursor, err = redis.Int64(reply[0], nil)
		if err != nil {
			return nil, err
		}
		keys, err := redis.Strings(reply[1], nil)
		if err != nil {
			return nil, err
		}

		if len(keys) > 0 {
			args := make([]interface{}, 0, len(keys))
			for _, key := range keys {
				args = append(args, key)
			}
			values, err := redis.Values(conn.Do(cache.MGET, args...))
			if err != nil {
				return nil, err
			}
			for i, key := range keys {
				//SCAN和MGET之间key可能已经被删除
				if values[i] == nil {
					continue
				}
				value, err := redis.Int64(values[i], nil)
				if err != nil {
					return nil, fmt.Errorf("parse counter %s fail,err:%s", key, err)
				}
				counters = append(counters, &Counter{
					Name:  strings.TrimPrefix(key, prefix),
					Value: value,
				})
			}
		}

		if cursor == 0 {
			break
		}
	}
	return counters, nil
}

// Get implements Service.Get
func (p *RedisCounter) Get(name string) (counter *Counter, err error) {
	if err = CheckName(name); err != nil {
		return nil, err
	}
	param := p.cacheParam.NewParamKey(name)
	value, ok, err := p.RedisClient.GetInt64(param)
	if err != nil {
		return nil, err
	}
	if !ok {
		value, ok, err = p.restore(name, param)
		if err != nil || !ok {
			return nil, err
		}
	}
	return &Counter{Name: name, Value: value}, nil
}

// Create implements Service.Create
func (p *RedisCounter) Create(name string) (counter *Counter, created bool, err error) {
	if err = CheckName(name); err != nil {
		return nil, false, err
	}
	param := p.cacheParam.NewParamKey(name)
	created, err = p.RedisClient.SetNX(param, 0)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return nil, false, nil
	}
	return &Counter{Name: name, Value: 0}, true, nil
}

// Incr implements Service.Incr
func (p *RedisCounter) Incr(name string, delta int64) (value int64, ok bool, err error) {
	if err = CheckName(name); err != nil {
		return 0, false, err
	}
	param := p.cacheParam.NewParamKey(name)
	exist, value, err := p.incrReply(p.RedisClient.Eval(param, incrScript, delta))
	if err != nil {
		return 0, false, err
	}
	if exist == LUATRUE {
		return value, true, nil
	}

	//Redis中不存在,尝试从持久化存储恢复后重试一次
	if _, restored, err := p.restore(name, param); err != nil || !restored {
		return 0, false, err
	}
	exist, value, err = p.incrReply(p.RedisClient.Eval(param, incrScript, delta))
	if err != nil {
		return 0, false, err
	}
	return value, exist == LUATRUE, nil
}

// Del implements Service.Del
func (p *RedisCounter) Del(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if p.Persist != nil {
		if _, err := p.Persist.Del(name); err != nil {
			return err
		}
	}
	_, err := p.RedisClient.Del(p.cacheParam.NewParamKey(name))
	return err
}

// restore 从Persist加载name的快照并写回Redis
func (p *RedisCounter) restore(name string, param cache.Param) (value int64, ok bool, err error) {
	if p.Persist == nil {
		return 0, false, nil
	}
	value, found, err := p.Persist.Load(name)
	if err != nil || !found {
		return 0, false, err
	}
	seted, err := p.RedisClient.SetNX(param, value)
	if err != nil {
		return 0, false, err
	}
	if !seted {
		//并发的恢复已经写入,以Redis中的值为准
		if value, ok, err = p.RedisClient.GetInt64(param); err != nil || !ok {
			return 0, false, err
		}
	}
	c.Infof("restore counter %s from persist,value:%d", name, value)
	return value, true, nil
}

func (p *RedisCounter) incrReply(redisReply interface{}, redisErr error) (exist int, value int64, err error) {
	reply, err := redis.Int64s(redisReply, redisErr)
	if err != nil {
		return LUAFALSE, 0, err
	}
	if len(reply) < 2 {
		return LUAFALSE, 0, fmt.Errorf("Bad reply length:%d", len(reply))
	}
	return int(reply[0]), reply[1], nil
}
