package http

import (
	"fmt"
	"net/http"
	"reflect"
)

// Controller 接口定义http处理器
type Controller interface {
	// GetName 控制器的名称
	GetName() string
	// GetPath 控制器的路径前缀
	GetPath() string
	// GetPatternMethods 返回pattern到处理方法名的映射,pattern使用
	// http.ServeMux的语法,可以带方法前缀,如`GET /counters/{name}`
	GetPatternMethods() map[string]string
	// GetHandlerMiddlewares 返回pattern对应的middleware
	GetHandlerMiddlewares() map[string][]Middleware
}

// BaseController 表示一个控制器
type BaseController struct {
	Name               string                  // Controller的名称
	Path               string                  // Controller的路径
	PatternMethods     map[string]string       // pattern->方法名
	HandlerMiddlewares map[string][]Middleware // pattern->middleware
}

// GetName implements Controller.GetName
func (p *BaseController) GetName() string {
	return p.Name
}

// GetPath implements Controller.GetPath
func (p *BaseController) GetPath() string {
	return p.Path
}

// GetPatternMethods implements Controller.GetPatternMethods
func (p *BaseController) GetPatternMethods() map[string]string {
	return p.PatternMethods
}

// GetHandlerMiddlewares implements Controller.GetHandlerMiddlewares
func (p *BaseController) GetHandlerMiddlewares() map[string][]Middleware {
	return p.HandlerMiddlewares
}

var (
	m http.HandlerFunc
	t = reflect.TypeOf(m)
)

// PatternHandlers 根据controller的PatternMethods查找类型为http.HandlerFunc的可导出方法
func PatternHandlers(controller Controller) (handlers map[string]http.HandlerFunc, err error) {
	val := reflect.ValueOf(controller)
	if !val.IsValid() || val.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("controller must be a valid pointer")
	}

	handlers = map[string]http.HandlerFunc{}
	for pattern, methodName := range controller.GetPatternMethods() {
		methodVal := val.MethodByName(methodName)
		if !methodVal.IsValid() {
			return nil, fmt.Errorf("can't find method %s in %T", methodName, controller)
		}
		if !methodVal.Type().AssignableTo(t) {
			return nil, fmt.Errorf("method %s of %T is not a http.HandlerFunc", methodName, controller)
		}
		handlers[pattern] = methodVal.Interface().(func(http.ResponseWriter, *http.Request))
	}
	return handlers, nil
}
