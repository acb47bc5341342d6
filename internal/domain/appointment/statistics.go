package appointment

import (
	"encoding/json"
	"math"
	"strconv"
)

// Snapshot holds the four dashboard counters for a closed date range.
type Snapshot struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
}

// Aggregate maps a /turnos/estadisticas response onto a Snapshot. Missing or
// malformed fields count as zero; it never fails.
func Aggregate(raw map[string]any) Snapshot {
	stats, _ := raw["estadisticas"].(map[string]any)
	if stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Total:      toInt(stats["total_turnos"]),
		Pending:    toInt(stats["pendientes"]),
		Completed:  toInt(stats["completados"]),
		InProgress: toInt(stats["confirmados"]),
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0
		}
		return int(n)
	case int:
		if n < 0 {
			return 0
		}
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil && i >= 0 {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil && i >= 0 {
			return i
		}
	}
	return 0
}
