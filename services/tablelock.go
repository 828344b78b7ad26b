package services

import "sync"

// tableLocks serialize transition ที่ชนกันบนโต๊ะเดียว
// กัน race แบบ check-then-act ตอนสองจอเลือกโต๊ะว่างพร้อมกัน
type tableLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newTableLocks() *tableLocks {
	return &tableLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *tableLocks) forTable(id uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// lockPair ล็อกสองโต๊ะเรียงตาม id กัน deadlock ตอน transfer สวนทางกัน
func (l *tableLocks) lockPair(a, b uint) func() {
	if a == b {
		m := l.forTable(a)
		m.Lock()
		return m.Unlock
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	m1, m2 := l.forTable(first), l.forTable(second)
	m1.Lock()
	m2.Lock()
	return func() {
		m2.Unlock()
		m1.Unlock()
	}
}
