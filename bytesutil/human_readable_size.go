package bytesutil

import "fmt"

const (
	KILO int64 = 1000 // 10 power 3
	KIBI int64 = 1024 // 2 power 10
)

var (
	binaryUnits  = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	decimalUnits = []string{"KB", "MB", "GB", "TB", "PB", "EB"}
)

// BinaryFormat formats size in powers of 1024 (e.g. "2.09 KiB"). Negative sizes give "".
func BinaryFormat(size int64) string {
	return format(size, KIBI, binaryUnits)
}

// DecimalFormat formats size in powers of 1000 (e.g. "2.14 KB"). Negative sizes give "".
func DecimalFormat(size int64) string {
	return format(size, KILO, decimalUnits)
}

func format(size int64, base int64, units []string) string {
	if size < 0 {
		return ""
	}
	if size < base {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size) / float64(base)
	unit := 0
	for value >= float64(base) && unit < len(units)-1 {
		value /= float64(base)
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, units[unit])
}
