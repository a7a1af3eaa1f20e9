// Package counter supply the named counter service
package counter

import (
	"fmt"
	"strings"
)

// Counter 命名计数器
type Counter struct {
	Name  string `json:"name"`
	Value int64  `json:"counter"`
}

// Service 计数器服务
type Service interface {
	// GetName counter service name
	GetName() string

	// GetAll 取得所有的计数器
	GetAll() (counters []*Counter, err error)

	// Get 取得name对应的计数器,不存在时返回nil
	Get(name string) (counter *Counter, err error)

	// Create 创建值为0的计数器,如果已经存在,created为false
	Create(name string) (counter *Counter, created bool, err error)

	// Incr 原子地增加计数器的值,如果不存在,ok为false
	Incr(name string, delta int64) (value int64, ok bool, err error)

	// Del 删除计数器,计数器不存在时不报错
	Del(name string) error
}

// Persist counter values to the persist storage
type Persist interface {
	// Load the value of name from persist storage,found表示快照是否存在
	Load(name string) (value int64, found bool, err error)

	// Store save the value with name
	Store(name string, value int64) error

	// Del delete the counter whose name is `name`
	Del(name string) (deleted bool, err error)
}

// CheckName 检查计数器名称,名称不能为空且不能包含`:`
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("counter name must not be empty")
	}
	if strings.Contains(name, ":") {
		return fmt.Errorf("counter name %s must not contain `:`", name)
	}
	return nil
}
