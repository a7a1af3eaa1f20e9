// Package rest 提供计数器的HTTP/JSON接口
package rest

import (
	"fmt"
	"net/http"

	c "github.com/d0ngw/counters/common"
	"github.com/d0ngw/counters/counter"
	dhttp "github.com/d0ngw/counters/http"
)

// Version 服务的版本
const Version = "1.0.0"

// ServiceName 服务的名称
const ServiceName = "Counter Service"

// CounterController 计数器资源的控制器
type CounterController struct {
	dhttp.BaseController
	counterService counter.Service
}

// NewCounterController 使用counterService创建CounterController
func NewCounterController(counterService counter.Service) *CounterController {
	return &CounterController{
		BaseController: dhttp.BaseController{
			Name: "counter",
			Path: "/counters",
			PatternMethods: map[string]string{
				"GET /counters":           "List",
				"GET /counters/{name}":    "Read",
				"POST /counters/{name}":   "Create",
				"PUT /counters/{name}":    "Update",
				"DELETE /counters/{name}": "Delete",
			},
		},
		counterService: counterService,
	}
}

// List 列出所有的计数器
func (p *CounterController) List(w http.ResponseWriter, r *http.Request) {
	c.Debugf("Request to list all counters")
	counters, err := p.counterService.GetAll()
	if err != nil {
		dhttp.RenderError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if counters == nil {
		counters = []*counter.Counter{}
	}
	dhttp.RenderJSON(w, counters)
}

// Read 读取单个计数器
func (p *CounterController) Read(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c.Debugf("Request to read counter:%s", name)
	if err := counter.CheckName(name); err != nil {
		dhttp.RenderError(w, http.StatusBadRequest, err.Error())
		return
	}

	got, err := p.counterService.Get(name)
	if err != nil {
		dhttp.RenderError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if got == nil {
		dhttp.RenderError(w, http.StatusNotFound, fmt.Sprintf("Counter %s does not exist", name))
		return
	}
	dhttp.RenderJSON(w, got)
}

// Create 创建值为0的计数器,重复创建返回409
func (p *CounterController) Create(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c.Debugf("Request to create counter:%s", name)
	if err := counter.CheckName(name); err != nil {
		dhttp.RenderError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, ok, err := p.counterService.Create(name)
	if err != nil {
		dhttp.RenderError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if !ok {
		dhttp.RenderError(w, http.StatusConflict, "Counter already exists")
		return
	}
	w.Header().Set("Location", readLocation(r, name))
	dhttp.RenderStatusJSON(w, http.StatusCreated, created)
}

// Update 原子地将计数器的值+1,不存在时返回404
func (p *CounterController) Update(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c.Debugf("Request to update counter:%s", name)
	if err := counter.CheckName(name); err != nil {
		dhttp.RenderError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, ok, err := p.counterService.Incr(name, 1)
	if err != nil {
		dhttp.RenderError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if !ok {
		dhttp.RenderError(w, http.StatusNotFound, fmt.Sprintf("Counter %s does not exist", name))
		return
	}
	dhttp.RenderJSON(w, &counter.Counter{Name: name, Value: value})
}

// Delete 删除计数器,总是返回204
func (p *CounterController) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c.Debugf("Request to delete counter:%s", name)
	if err := counter.CheckName(name); err != nil {
		dhttp.RenderError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := p.counterService.Del(name); err != nil {
		dhttp.RenderError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readLocation 计数器读取endpoint的外部URL
func readLocation(r *http.Request, name string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/counters/%s", scheme, r.Host, name)
}

// indexResp 服务元信息
type indexResp struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// healthResp 健康检查响应
type healthResp struct {
	Status string `json:"status"`
}

// IndexController 服务元信息与健康检查
type IndexController struct {
	dhttp.BaseController
}

// NewIndexController create IndexController
func NewIndexController() *IndexController {
	return &IndexController{
		BaseController: dhttp.BaseController{
			Name: "index",
			Path: "/",
			PatternMethods: map[string]string{
				"GET /{$}":    "Index",
				"GET /health": "Health",
			},
		},
	}
}

// Index 服务元信息
func (p *IndexController) Index(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	dhttp.RenderJSON(w, &indexResp{
		Status:  http.StatusOK,
		Message: ServiceName,
		Version: Version,
		URL:     fmt.Sprintf("%s://%s/counters", scheme, r.Host),
	})
}

// Health 健康检查,总是返回OK
func (p *IndexController) Health(w http.ResponseWriter, r *http.Request) {
	dhttp.RenderJSON(w, &healthResp{Status: "OK"})
}
