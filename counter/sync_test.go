package counter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type persistMock struct {
	mutex  sync.Mutex
	values map[string]int64
}

func newPersistMock() *persistMock {
	return &persistMock{values: map[string]int64{}}
}

func (p *persistMock) Load(name string) (value int64, found bool, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	value, found = p.values[name]
	return
}

func (p *persistMock) Store(name string, value int64) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.values[name] = value
	return nil
}

func (p *persistMock) Del(name string) (deleted bool, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	_, deleted = p.values[name]
	delete(p.values, name)
	return
}

func TestSyncer(t *testing.T) {
	counter := NewMemCounter("mem")
	persist := newPersistMock()

	_, err := NewSyncer(counter, nil, time.Second)
	assert.NotNil(t, err)
	_, err = NewSyncer(counter, persist, 0)
	assert.NotNil(t, err)

	syncer, err := NewSyncer(counter, persist, 10*time.Millisecond)
	assert.Nil(t, err)
	assert.Equal(t, "mem.sync", syncer.Name())

	counter.Create("a")
	counter.Create("b")
	counter.Incr("a", 3)

	assert.True(t, syncer.Start())
	time.Sleep(50 * time.Millisecond)
	assert.True(t, syncer.Stop())

	value, found, err := persist.Load("a")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 3, value)

	value, found, err = persist.Load("b")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 0, value)
}

func TestSyncerStopIdempotent(t *testing.T) {
	counter := NewMemCounter("mem")
	syncer, err := NewSyncer(counter, newPersistMock(), time.Minute)
	assert.Nil(t, err)
	assert.True(t, syncer.Start())
	assert.True(t, syncer.Stop())
	assert.True(t, syncer.Stop())
}

func TestSyncerStopFlushes(t *testing.T) {
	counter := NewMemCounter("mem")
	persist := newPersistMock()

	//周期足够长,只有Stop前的最后一次同步能写入快照
	syncer, err := NewSyncer(counter, persist, time.Hour)
	assert.Nil(t, err)
	assert.True(t, syncer.Start())

	counter.Create("a")
	counter.Incr("a", 5)
	assert.True(t, syncer.Stop())

	value, found, err := persist.Load("a")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 5, value)
}

func TestSyncerStopWithoutStart(t *testing.T) {
	counter := NewMemCounter("mem")
	syncer, err := NewSyncer(counter, newPersistMock(), time.Minute)
	assert.Nil(t, err)
	assert.True(t, syncer.Stop())
}
