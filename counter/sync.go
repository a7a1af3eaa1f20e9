package counter

import (
	"errors"
	"sync/atomic"
	"time"

	c "github.com/d0ngw/counters/common"
)

// Syncer 周期性地将计数器快照同步到Persist
type Syncer struct {
	c.BaseService
	counter  Service
	persist  Persist
	interval time.Duration
	started  int32
	stop     int32
	done     chan struct{}
	finished chan struct{}
}

// NewSyncer create Syncer service
func NewSyncer(counter Service, persist Persist, interval time.Duration) (*Syncer, error) {
	if c.HasNil(counter, persist) {
		return nil, errors.New("counter and persist must not be nil")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be >0")
	}
	return &Syncer{
		BaseService: c.BaseService{SName: counter.GetName() + ".sync"},
		counter:     counter,
		persist:     persist,
		interval:    interval,
		done:        make(chan struct{}),
		finished:    make(chan struct{}),
	}, nil
}

// Start implements Service.Start
func (p *Syncer) Start() bool {
	if atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		go p.run()
	}
	return true
}

// Stop implements Service.Stop,等待最后一次同步完成
func (p *Syncer) Stop() bool {
	if atomic.CompareAndSwapInt32(&p.stop, 0, 1) {
		close(p.done)
	}
	if atomic.LoadInt32(&p.started) == 1 {
		<-p.finished
	}
	return true
}

func (p *Syncer) run() {
	defer close(p.finished)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			//退出前做最后一次同步
			p.syncAll()
			return
		case <-ticker.C:
			p.syncAll()
		}
	}
}

// syncAll 将当前所有的计数器快照写入Persist
func (p *Syncer) syncAll() {
	counters, err := p.counter.GetAll()
	if err != nil {
		c.Errorf("sync scan counters fail,err:%s", err)
		return
	}
	var synced int
	for _, counter := range counters {
		if err := p.persist.Store(counter.Name, counter.Value); err != nil {
			c.Errorf("sync counter %s fail,err:%s", counter.Name, err)
			continue
		}
		synced++
	}
	c.Debugf("synced %d/%d counters", synced, len(counters))
}
