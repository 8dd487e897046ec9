package models

import "math"

// Cents переводит денежную сумму в целые копейки.
// Денежные сравнения выполняются только в копейках: прямое сравнение
// float64 отвергает корректные команды из-за ошибки представления
// (9.98 + 0.39 != 10.37 в float64).
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
