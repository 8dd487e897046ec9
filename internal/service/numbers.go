package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// Префиксы человекочитаемых номеров.
const (
	accountNumberPrefix  = "ESC"
	movementNumberPrefix = "TXN"
	disputeNumberPrefix  = "DSP"
)

// generateNumber собирает номер вида PREFIX-YYYYMMDD-XXXXXXXX,
// где суффикс — 8 случайных hex символов в верхнем регистре.
func generateNumber(prefix string, now time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand практически не ошибается; fallback на наносекунды
		// сохраняет уникальность в пределах процесса.
		ns := now.UnixNano()
		buf = []byte{byte(ns >> 24), byte(ns >> 16), byte(ns >> 8), byte(ns)}
	}
	return prefix + "-" + now.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(buf))
}

// GenerateAccountNumber возвращает номер escrow счёта.
func GenerateAccountNumber(now time.Time) string {
	return generateNumber(accountNumberPrefix, now)
}

// GenerateTransactionNumber возвращает номер движения средств.
func GenerateTransactionNumber(now time.Time) string {
	return generateNumber(movementNumberPrefix, now)
}

// GenerateDisputeNumber возвращает номер спора.
func GenerateDisputeNumber(now time.Time) string {
	return generateNumber(disputeNumberPrefix, now)
}
