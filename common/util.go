package common

import (
	"hash/fnv"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"sync"
	"syscall"
)

// HasNil 检查vals中是否有nil值
func HasNil(vals ...interface{}) bool {
	for _, v := range vals {
		if v == nil {
			return true
		}
		val := reflect.ValueOf(v)
		switch val.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			if val.IsNil() {
				return true
			}
		}
	}
	return false
}

// IsEmpty 检查vals中是否有空字符串
func IsEmpty(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Fnv32Hashcode 计算data的FNV-1a hash值
func Fnv32Hashcode(data string) int {
	h := fnv.New32a()
	h.Write([]byte(data))
	return int(h.Sum32() & 0x7FFFFFFF)
}

// Shutdownhook 用于处理进程退出信号
type Shutdownhook struct {
	ch         chan os.Signal //接收信号的channel
	hooks      []func()       //停机时需要调用的方法列表
	sync.Mutex                //同步锁
}

// NewShutdownhook 创建一个Shutdownhook,sig是要监听的信号,默认会监听syscall.SIGINT,syscall.SIGTERM
func NewShutdownhook(sig ...os.Signal) *Shutdownhook {
	if len(sig) == 0 {
		sig = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, len(sig))
	signal.Notify(ch, sig...)
	return &Shutdownhook{ch: ch}
}

// AddHook 增加一个Hook函数
func (p *Shutdownhook) AddHook(hookFunc func()) {
	p.Lock()
	defer p.Unlock()
	p.hooks = append(p.hooks, hookFunc)
}

// WaitShutdown 等待进程退出的信号,当收到进程退出的信号后,依次执行注册的hook函数
func (p *Shutdownhook) WaitShutdown() {
	p.Lock()
	defer p.Unlock()

	if p.ch == nil {
		panic("singal channel is nil")
	}

	if s, ok := <-p.ch; ok {
		signal.Stop(p.ch)
		close(p.ch)
		p.ch = nil

		Infof("Receive signal:%v,Run hooks", s)
		for _, f := range p.hooks {
			f()
		}
		Infof("Finished run hooks")
	} else {
		Warnf("Receive signal error,%v", ok)
	}
}
