package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// StatusPoller เก็บ snapshot ของโต๊ะที่เปิดอยู่ไว้ให้ client โพลทุก interval
// อ่านจาก orders (source of truth) — stale ได้ไม่เกินหนึ่ง interval
type StatusPoller struct {
	session  *SessionService
	interval time.Duration

	mu        sync.RWMutex
	open      []uint
	updatedAt time.Time
}

func NewStatusPoller(session *SessionService, interval time.Duration) *StatusPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &StatusPoller{session: session, interval: interval}
}

// Run บล็อกจน ctx ถูกยกเลิก — ตั้งใจให้เรียกใน goroutine เดียว
func (p *StatusPoller) Run(ctx context.Context) {
	// refresh รอบแรกทันที ไม่ต้องรอ tick
	p.refresh(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.refresh(ctx)
		}
	}
}

func (p *StatusPoller) refresh(ctx context.Context) {
	ids, err := p.session.RefreshOccupancy(ctx)
	if err != nil {
		log.Println("⚠️ refresh occupancy failed:", err)
		return
	}
	p.mu.Lock()
	p.open = ids
	p.updatedAt = time.Now()
	p.mu.Unlock()
}

// Snapshot คืนชุดโต๊ะเปิดล่าสุด + เวลาที่อ่านมา
func (p *StatusPoller) Snapshot() ([]uint, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]uint, len(p.open))
	copy(out, p.open)
	return out, p.updatedAt
}
