package rest

import (
	"fmt"
	"time"

	"github.com/d0ngw/counters/cache"
	c "github.com/d0ngw/counters/common"
	"github.com/d0ngw/counters/counter"
)

// HTTPConf http服务配置
type HTTPConf struct {
	Addr         string `yaml:"addr"`          //监听地址
	ReadTimeout  int    `yaml:"read_timeout"`  //读超时,单位秒
	WriteTimeout int    `yaml:"write_timeout"` //写超时,单位秒
	MaxConns     int    `yaml:"max_conns"`     //最大并发连接数,0表示不限制
}

// Parse implements Configurer
func (p *HTTPConf) Parse() error {
	if p.Addr == "" {
		p.Addr = ":8080"
	}
	return nil
}

// PersistConf 计数器快照的持久化配置
type PersistConf struct {
	DB                 *counter.MysqlDBConfig `yaml:"db"`                   //MySQL配置
	Table              string                 `yaml:"table"`                //快照表名
	SyncIntervalSecond int                    `yaml:"sync_interval_second"` //同步周期,单位秒
}

// Parse implements Configurer
func (p *PersistConf) Parse() error {
	if p.DB == nil {
		return fmt.Errorf("need db conf")
	}
	if p.Table == "" {
		p.Table = "counters"
	}
	if p.SyncIntervalSecond <= 0 {
		p.SyncIntervalSecond = 60
	}
	return nil
}

// SyncInterval 同步周期
func (p *PersistConf) SyncInterval() time.Duration {
	return time.Duration(p.SyncIntervalSecond) * time.Second
}

// CounterConf 计数器配置
type CounterConf struct {
	Group     string       `yaml:"group"`      //Redis组的id
	KeyPrefix string       `yaml:"key_prefix"` //计数器在Redis中的key前缀
	Persist   *PersistConf `yaml:"persist"`    //可选的持久化配置
}

// Parse implements Configurer
func (p *CounterConf) Parse() error {
	if p.Group == "" {
		return fmt.Errorf("need redis group")
	}
	if p.Persist != nil {
		return p.Persist.Parse()
	}
	return nil
}

// CacheParam 计数器的缓存参数
func (p *CounterConf) CacheParam() *cache.ParamConf {
	return cache.NewParamConf(p.Group, p.KeyPrefix, 0)
}

// AppConf 计数器服务的配置
type AppConf struct {
	c.AppConfig `yaml:",inline"`
	Redis       *cache.RedisConf `yaml:"redis"`   //Redis实例与组
	HTTP        *HTTPConf        `yaml:"http"`    //http服务配置
	Counter     *CounterConf     `yaml:"counter"` //计数器配置
}

// Parse implements Configurer
func (p *AppConf) Parse() error {
	if p.HTTP == nil {
		p.HTTP = &HTTPConf{}
	}
	if p.Counter == nil {
		return fmt.Errorf("need counter conf")
	}
	return c.Parse(p)
}

// RedisConfig implements RedisConfigurer
func (p *AppConf) RedisConfig() *cache.RedisConf {
	return p.Redis
}
