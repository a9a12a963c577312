package store

import (
	"database/sql/driver"
	"strconv"
	"strings"

	"modernc.org/sqlite"

	"github.com/aidanlsb/sift/internal/geo"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("greatcircle", 4, greatCircle)
}

// greatCircle implements greatcircle(lat1, long1, lat2, long2) for SQLite.
// Any argument that is not numeric yields NULL.
func greatCircle(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var coords [4]float64
	for i, arg := range args {
		f, ok := toFloat(arg)
		if !ok {
			return nil, nil
		}
		coords[i] = f
	}
	return geo.Distance(coords[0], coords[1], coords[2], coords[3]), nil
}

func toFloat(v driver.Value) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
