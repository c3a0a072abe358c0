//go:build linux

package hwprobe

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

var defaultMemTotalMB float64 = 2048

func cpuName() string {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return "Unknown CPU"
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "model name") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				name := strings.TrimSpace(parts[1])
				if name != "" {
					return name
				}
			}
		}
	}
	return "Unknown CPU"
}

// memoryMB reads /proc/meminfo for MemTotal and MemAvailable. If
// MemAvailable is not reported (old kernels), it falls back to 60% of
// total; if neither is reported, it falls back to the 2048 MB default.
func memoryMB() (totalMB, availMB int) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 2048, int(defaultMemTotalMB * 0.60)
	}
	defer f.Close()

	var totalKB, availKB int64
	haveAvail := false

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			totalKB = parseMemInfoKB(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			availKB = parseMemInfoKB(line)
			haveAvail = true
		}
	}

	if totalKB == 0 {
		return 2048, int(defaultMemTotalMB * 0.60)
	}
	totalMB = int(totalKB / 1024)
	if haveAvail {
		availMB = int(availKB / 1024)
	} else {
		availMB = int(float64(totalMB) * 0.60)
	}
	return totalMB, availMB
}

func parseMemInfoKB(line string) int64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
