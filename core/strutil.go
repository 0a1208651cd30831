package core

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n < 0 {
		return "-" + string(appendUint(nil, uint32(-n)))
	}
	return string(appendUint(nil, uint32(n)))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	return string(appendUint(nil, n))
}

// appendUint appends the decimal digits of n to buf
func appendUint(buf []byte, n uint32) []byte {
	if n == 0 {
		return append(buf, '0')
	}

	var digits [10]byte
	pos := len(digits)
	for n > 0 {
		pos--
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	return append(buf, digits[pos:]...)
}

// valueToString converts a value to string representation
// Handles the types used for published constants
func valueToString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return itoa(val)
	case int32:
		return itoa(int(val))
	case uint32:
		return utoa(val)
	case uint16:
		return utoa(uint32(val))
	case uint8:
		return utoa(uint32(val))
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}
