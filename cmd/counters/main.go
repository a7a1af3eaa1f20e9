// counters 命名计数器服务
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/d0ngw/counters/cache"
	c "github.com/d0ngw/counters/common"
	"github.com/d0ngw/counters/counter"
	dhttp "github.com/d0ngw/counters/http"
	"github.com/d0ngw/counters/rest"
)

var (
	configPath = flag.String("config", "", "yaml配置文件路径")
	useMem     = flag.Bool("mem", false, "使用内存计数器,仅用于开发测试")
)

func main() {
	flag.Parse()

	conf := defaultConf()
	if *configPath != "" {
		if err := c.LoadYAMLFromPath(*configPath, conf); err != nil {
			c.Criticalf("Load config from %s fail,err:%v", *configPath, err)
			os.Exit(1)
		}
	}
	if err := applyEnv(conf); err != nil {
		c.Criticalf("Apply env fail,err:%v", err)
		os.Exit(1)
	}
	if err := conf.Parse(); err != nil {
		c.Criticalf("Parse config fail,err:%v", err)
		os.Exit(1)
	}

	services, err := buildServices(conf)
	if err != nil {
		c.Criticalf("Build services fail,err:%v", err)
		os.Exit(1)
	}

	if !services.Init() || !services.Start() {
		c.Criticalf("Start services fail")
		services.Stop()
		os.Exit(1)
	}

	hook := c.NewShutdownhook(syscall.SIGINT, syscall.SIGTERM)
	hook.AddHook(func() {
		services.Stop()
		c.SyncLogger()
	})
	hook.WaitShutdown()
}

// defaultConf 本机Redis,监听:8080
func defaultConf() *rest.AppConf {
	return &rest.AppConf{
		Redis: &cache.RedisConf{
			Servers: []*cache.RedisServer{{ID: "counter0", Host: "127.0.0.1", Port: 6379}},
			Groups:  map[string][]string{"counter": {"counter0"}},
		},
		HTTP: &rest.HTTPConf{Addr: ":8080"},
		Counter: &rest.CounterConf{
			Group:     "counter",
			KeyPrefix: "counter.",
		},
	}
}

// applyEnv 环境变量覆盖配置:DATABASE_URI,PORT,DEBUG
func applyEnv(conf *rest.AppConf) error {
	if uri := os.Getenv("DATABASE_URI"); uri != "" {
		server, err := parseRedisURI(uri)
		if err != nil {
			return err
		}
		conf.Redis = &cache.RedisConf{
			Servers: []*cache.RedisServer{server},
			Groups:  map[string][]string{conf.Counter.Group: {server.ID}},
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid PORT %s", port)
		}
		conf.HTTP.Addr = ":" + port
	}
	if debug := os.Getenv("DEBUG"); debug == "1" || debug == "true" {
		if conf.LogConfig == nil {
			conf.LogConfig = &c.LogConfig{}
		}
		conf.LogConfig.Env = c.EnvDevelopment
		conf.LogConfig.Level = "debug"
	}
	return nil
}

// parseRedisURI 解析redis://[:pass@]host:port形式的URI
func parseRedisURI(uri string) (*cache.RedisServer, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URI %s,err:%v", uri, err)
	}
	if u.Scheme != "redis" {
		return nil, fmt.Errorf("unsupported DATABASE_URI scheme %s", u.Scheme)
	}
	port := 6379
	if p := u.Port(); p != "" {
		if port, err = strconv.Atoi(p); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URI port %s", p)
		}
	}
	auth := ""
	if u.User != nil {
		auth, _ = u.User.Password()
	}
	return &cache.RedisServer{
		ID:   "counter0",
		Host: u.Hostname(),
		Port: port,
		Auth: auth,
	}, nil
}

// buildServices 按配置装配计数器服务,同步服务与http服务
func buildServices(conf *rest.AppConf) (*c.Services, error) {
	var services []c.Service

	var counterService counter.Service
	if *useMem {
		memCounter := counter.NewMemCounter("counter")
		services = append(services, memCounter)
		counterService = memCounter
	} else {
		redisClient := cache.NewRedisClientWithConf(conf.Redis)
		redisCounter := counter.NewRedisCounter("counter", redisClient, conf.Counter.CacheParam())

		if persistConf := conf.Counter.Persist; persistConf != nil {
			db, err := persistConf.DB.NewDB()
			if err != nil {
				return nil, err
			}
			persist, err := counter.NewDBPersist(db, persistConf.Table)
			if err != nil {
				return nil, err
			}
			redisCounter.Persist = persist

			syncer, err := counter.NewSyncer(redisCounter, persist, persistConf.SyncInterval())
			if err != nil {
				return nil, err
			}
			services = append(services, redisCounter, syncer)
		} else {
			services = append(services, redisCounter)
		}
		counterService = redisCounter
	}

	httpConfig := dhttp.NewConfig(conf.HTTP.Addr)
	httpConfig.ReadTimeout = time.Duration(conf.HTTP.ReadTimeout)
	httpConfig.WriteTimeout = time.Duration(conf.HTTP.WriteTimeout)
	httpConfig.MaxConns = conf.HTTP.MaxConns

	httpConfig.RegMiddleware(&dhttp.AccessLogMiddleware{})
	httpConfig.RegMiddleware(dhttp.NewMetricsMiddleware("counters"))

	if err := httpConfig.RegController(rest.NewIndexController()); err != nil {
		return nil, err
	}
	if err := httpConfig.RegController(rest.NewCounterController(counterService)); err != nil {
		return nil, err
	}
	if err := httpConfig.RegHandler("GET /metrics", dhttp.MetricsHandler()); err != nil {
		return nil, err
	}

	httpSvc := &dhttp.Service{
		BaseService: c.BaseService{SName: "counters-http"},
		Conf:        httpConfig,
	}
	services = append(services, httpSvc)
	return c.NewServices(services, nil), nil
}
