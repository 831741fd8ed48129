package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string, additionally accepting a "d" (day) unit
// ParseDuration 解析时间字符串, 额外支持 "d"（天）单位
// A pure number is read as seconds
// 纯数字视为秒
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}
