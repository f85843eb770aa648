package cfg

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

var isoDateTimeRe = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})` +
		`(?:[ T](\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?` +
		`(?:([+-]\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?)?)?$`)

var envRefRe = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z0-9_]*)(?:\|(.*))?$`)

var interpRe = regexp.MustCompile(`\$\{([^}]*)\}`)

// defaultStringConverter implements the three back-tick conversion rules in
// order: ISO date-time, $NAME[|default] environment lookup, then ${path}
// interpolation. A string matching none of these is returned unchanged,
// which is itself an error under strictConversions.
func defaultStringConverter(c *Config, content string) (Value, error) {
	if dt, ok := parseISODateTime(content); ok {
		return Value{Kind: KindDateTime, Time: dt}, nil
	}

	if idx := envRefRe.FindStringSubmatchIndex(content); idx != nil {
		name := content[idx[2]:idx[3]]
		if v, ok := os.LookupEnv(name); ok {
			return String(v), nil
		}
		if idx[4] != -1 {
			return String(content[idx[4]:idx[5]]), nil
		}
		return None, nil
	}

	if interpRe.MatchString(content) {
		result, err := interpolate(c, content)
		if err != nil {
			if c.strictConversions {
				return Value{}, &ConfigError{Msg: "unable to convert string: " + content}
			}
			return String(content), nil
		}
		return String(result), nil
	}

	if c.strictConversions {
		return Value{}, &ConfigError{Msg: "unable to convert string: " + content}
	}
	return String(content), nil
}

func interpolate(c *Config, content string) (string, error) {
	var out strings.Builder
	last := 0
	for _, idx := range interpRe.FindAllStringSubmatchIndex(content, -1) {
		out.WriteString(content[last:idx[0]])
		path := content[idx[2]:idx[3]]
		v, err := c.Get(path)
		if err != nil {
			return "", err
		}
		out.WriteString(Text(v))
		last = idx[1]
	}
	out.WriteString(content[last:])
	return out.String(), nil
}

func parseISODateTime(s string) (DateTime, bool) {
	m := isoDateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return DateTime{}, false
	}
	year := atoi(m[1])
	month := atoi(m[2])
	day := atoi(m[3])

	date := civil.Date{Year: year, Month: time.Month(month), Day: day}

	if m[4] == "" {
		return DateTime{Naive: civil.DateTime{Date: date}}, true
	}

	hour := atoi(m[4])
	minute := atoi(m[5])
	second := atoi(m[6])
	nsec := nanosFromFrac(m[7])

	civilTime := civil.Time{Hour: hour, Minute: minute, Second: second, Nanosecond: nsec}

	if m[8] == "" {
		return DateTime{Naive: civil.DateTime{Date: date, Time: civilTime}}, true
	}

	zoneHour := atoi(m[8])
	zoneMinute := atoi(m[9])
	zoneSecond := atoi(m[10])

	sign := 1
	if strings.HasPrefix(m[8], "-") {
		sign = -1
		zoneHour = -zoneHour
	}
	offset := sign * (zoneHour*3600 + zoneMinute*60 + zoneSecond)

	loc := time.FixedZone("", offset)
	t := time.Date(year, time.Month(month), day, hour, minute, second, nsec, loc)
	return DateTime{HasZone: true, Zoned: t}, true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// nanosFromFrac interprets s as the digits following a decimal point in a
// fractional-seconds field, padding or truncating to nanosecond precision.
func nanosFromFrac(s string) int {
	if s == "" {
		return 0
	}
	if len(s) > 9 {
		s = s[:9]
	}
	for len(s) < 9 {
		s += "0"
	}
	n, _ := strconv.Atoi(s)
	return n
}
