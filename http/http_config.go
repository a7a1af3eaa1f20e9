// Package http 提供基本的http服务
package http

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	c "github.com/d0ngw/counters/common"
)

// handlerWithMiddleware 带middleware的处理函数
type handlerWithMiddleware struct {
	handlerFunc http.HandlerFunc
	middlewares []Middleware
}

// Config Http配置
type Config struct {
	Addr          string                            //Http监听地址
	ReadTimeout   time.Duration                     //读超时,单位秒
	WriteTimeout  time.Duration                     //写超时,单位秒
	MaxConns      int                               //最大的并发连接数
	middlewares   []Middleware                      //过滤操作
	controllers   []Controller                      //controller
	handles       map[string]*handlerWithMiddleware //handles
	controllerMux sync.RWMutex
}

// NewConfig 创建配置
func NewConfig(addr string) *Config {
	return &Config{
		Addr:        addr,
		handles:     map[string]*handlerWithMiddleware{},
		middlewares: []Middleware{},
		controllers: []Controller{},
	}
}

// RegController 注册controller中的所有处理函数
func (p *Config) RegController(controller Controller) error {
	if controller == nil {
		return fmt.Errorf("Can't reg nil controller")
	}

	p.controllerMux.Lock()
	defer p.controllerMux.Unlock()

	handlers, err := PatternHandlers(controller)
	if err != nil {
		return err
	}

	if len(handlers) == 0 {
		c.Warnf("Can't find handler in %#v", controller)
		return nil
	}

	p.controllers = append(p.controllers, controller)
	handlerMiddlewares := controller.GetHandlerMiddlewares()

	for pattern, h := range handlers {
		if err := p.regHandleFunc(pattern, &handlerWithMiddleware{h, handlerMiddlewares[pattern]}); err != nil {
			return err
		}
		c.Infof("Register controller %T#%s,pattern:%s", controller, controller.GetName(), pattern)
	}
	return nil
}

// regHandleFunc 注册pattern的处理函数handle
func (p *Config) regHandleFunc(pattern string, handle *handlerWithMiddleware) error {
	if _, ok := p.handles[pattern]; ok {
		return fmt.Errorf("Duplicate pattern:%s", pattern)
	}
	p.handles[pattern] = handle
	return nil
}

// RegHandleFunc 注册pattern的处理函数handlerFunc
func (p *Config) RegHandleFunc(pattern string, handlerFunc http.HandlerFunc) error {
	p.controllerMux.Lock()
	defer p.controllerMux.Unlock()
	return p.regHandleFunc(pattern, &handlerWithMiddleware{handlerFunc, nil})
}

// RegHandler 注册pattern的处理器handler
func (p *Config) RegHandler(pattern string, handler http.Handler) error {
	if handler == nil {
		return fmt.Errorf("invalid handler")
	}
	return p.RegHandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	})
}

// RegMiddleware 注册middleware,middleware的注册需要在Service.Init之前完成
func (p *Config) RegMiddleware(middleware Middleware) error {
	if middleware == nil {
		return fmt.Errorf("invalid middleware")
	}
	p.middlewares = append(p.middlewares, middleware)
	return nil
}
