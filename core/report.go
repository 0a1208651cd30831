package core

// Report line prefixes printed by the firmware
const (
	ReportCoreClock = "System Clock: "
	ReportBusClock  = "Bus Clock: "
	ReportTick      = "tick: "
	reportEOL       = "\r\n"
)

// AppendClockReport appends the boot-time clock lines to buf
func AppendClockReport(buf []byte, clocks ResolvedClocks) []byte {
	buf = append(buf, ReportCoreClock...)
	buf = appendUint(buf, clocks.CoreHz)
	buf = append(buf, reportEOL...)
	buf = append(buf, ReportBusClock...)
	buf = appendUint(buf, clocks.BusHz)
	return append(buf, reportEOL...)
}

// AppendTickReport appends a heartbeat line such as "LED: 1, tick: 1000"
func AppendTickReport(buf []byte, label string, tick uint32) []byte {
	if label != "" {
		buf = append(buf, label...)
		buf = append(buf, ", "...)
	}
	buf = append(buf, ReportTick...)
	buf = appendUint(buf, tick)
	return append(buf, reportEOL...)
}
