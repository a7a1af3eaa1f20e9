package counter

import (
	"sort"
	"sync"

	c "github.com/d0ngw/counters/common"
)

// MemCounter 基于内存的Service实现,用于测试和不依赖Redis的开发环境,进程退出后数据丢失
type MemCounter struct {
	c.BaseService
	mutex    sync.Mutex
	counters map[string]int64
}

// NewMemCounter create MemCounter service
func NewMemCounter(name string) *MemCounter {
	return &MemCounter{
		BaseService: c.BaseService{SName: name},
		counters:    map[string]int64{},
	}
}

// GetName implements Service.GetName
func (p *MemCounter) GetName() string {
	return p.Name()
}

// GetAll implements Service.GetAll
func (p *MemCounter) GetAll() (counters []*Counter, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for name, value := range p.counters {
		counters = append(counters, &Counter{Name: name, Value: value})
	}
	sort.Slice(counters, func(i, j int) bool {
		return counters[i].Name < counters[j].Name
	})
	return counters, nil
}

// Get implements Service.Get
func (p *MemCounter) Get(name string) (counter *Counter, err error) {
	if err = CheckName(name); err != nil {
		return nil, err
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	value, ok := p.counters[name]
	if !ok {
		return nil, nil
	}
	return &Counter{Name: name, Value: value}, nil
}

// Create implements Service.Create
func (p *MemCounter) Create(name string) (counter *Counter, created bool, err error) {
	if err = CheckName(name); err != nil {
		return nil, false, err
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, ok := p.counters[name]; ok {
		return nil, false, nil
	}
	p.counters[name] = 0
	return &Counter{Name: name, Value: 0}, true, nil
}

// Incr implements Service.Incr
func (p *MemCounter) Incr(name string, delta int64) (value int64, ok bool, err error) {
	if err = CheckName(name); err != nil {
		return 0, false, err
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, ok := p.counters[name]; !ok {
		return 0, false, nil
	}
	p.counters[name] += delta
	return p.counters[name], true, nil
}

// Del implements Service.Del
func (p *MemCounter) Del(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	delete(p.counters, name)
	return nil
}
