//go:build tinygo && kl25z

package main

// UART1 on PTE0 (TX) / PTE1 (RX), ALT3
const (
	uart1Base = 0x4006B000
	uart1BDH  = uart1Base + 0x0
	uart1BDL  = uart1Base + 0x1
	uart1C2   = uart1Base + 0x3
	uart1S1   = uart1Base + 0x4
	uart1D    = uart1Base + 0x7

	uartC2TE   = 1 << 3
	uartC2RE   = 1 << 2
	uartS1TDRE = 1 << 7

	portePCR0  = 0x4004D000
	portePCR1  = 0x4004D004
	pcrMuxAlt3 = 3 << 8

	scgc4UART1 = 1 << 11
	scgc5PORTE = 1 << 13
)

// initUART1 programs the baud divisor from the published bus clock
func initUART1(sbr uint16) {
	reg32(simSCGC4).SetBits(scgc4UART1)
	reg32(simSCGC5).SetBits(scgc5PORTE)
	reg32(portePCR0).Set(pcrMuxAlt3)
	reg32(portePCR1).Set(pcrMuxAlt3)

	reg8(uart1C2).Set(0)
	reg8(uart1BDH).Set(uint8(sbr>>8) & 0x1F)
	reg8(uart1BDL).Set(uint8(sbr))
	reg8(uart1C2).Set(uartC2TE | uartC2RE)
}

func uartWrite(buf []byte) {
	for _, b := range buf {
		for reg8(uart1S1).Get()&uartS1TDRE == 0 {
		}
		reg8(uart1D).Set(b)
	}
}

func uartWriteString(s string) {
	uartWrite([]byte(s))
	uartWrite([]byte("\r\n"))
}
