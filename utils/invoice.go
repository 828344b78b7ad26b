package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewInvoiceNo สร้างเลขใบเสร็จ POS + timestamp (UTC) + suffix สุ่ม 4 hex
// suffix กันชนกันตอนเปิดหลายโต๊ะพร้อมกันในวินาทีเดียว
func NewInvoiceNo(now time.Time) string {
	var b [2]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("POS%s%s", now.UTC().Format("20060102150405"), hex.EncodeToString(b[:]))
}
