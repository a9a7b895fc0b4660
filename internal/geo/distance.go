// Package geo は配達距離・所要時間の見積もりを行う純粋関数群。
// 同じ入力に対して常に同じ結果を返す（副作用・状態なし）。
package geo

import "math"

const (
	earthRadiusKm = 6371

	// 直線距離と実走行距離の平均的な比。
	roadFactor = 1.3

	// 市街地の平均 3分/km。
	minutesPerKm = 3
)

// 距離カテゴリ。
type Category string

const (
	CategoryClose   Category = "close"    // <=2km
	CategoryMedium  Category = "medium"   // <=5km
	CategoryFar     Category = "far"      // <=10km
	CategoryVeryFar Category = "very_far" // それ以上
)

// Haversine は2点間の大円距離をkmで返す。小数2桁に丸める。
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*(math.Pi/180))*math.Cos(lat2*(math.Pi/180))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(earthRadiusKm * c)
}

// RoadDistance は直線距離×1.3の概算走行距離をkmで返す。
func RoadDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return round2(Haversine(lat1, lon1, lat2, lon2) * roadFactor)
}

// EstimatedMinutes は走行距離からの概算所要時間（分、切り上げ）。
func EstimatedMinutes(roadKm float64) int {
	return int(math.Ceil(roadKm * minutesPerKm))
}

// Categorize は走行距離をカテゴリに落とす。
func Categorize(roadKm float64) Category {
	switch {
	case roadKm <= 2:
		return CategoryClose
	case roadKm <= 5:
		return CategoryMedium
	case roadKm <= 10:
		return CategoryFar
	default:
		return CategoryVeryFar
	}
}

// Estimate はクーリエ/レストランとコンシューマの間の見積もり一式。
type Estimate struct {
	StraightKm       float64  `json:"straight_distance_km"`
	RoadKm           float64  `json:"estimated_road_distance_km"`
	EstimatedMinutes int      `json:"estimated_time_minutes"`
	Category         Category `json:"distance_category"`
}

// DeliveryEstimate は(lon,lat)ペア2点から見積もりを作る。
func DeliveryEstimate(fromLon, fromLat, toLon, toLat float64) Estimate {
	straight := Haversine(fromLat, fromLon, toLat, toLon)
	road := round2(straight * roadFactor)

	return Estimate{
		StraightKm:       straight,
		RoadKm:           road,
		EstimatedMinutes: EstimatedMinutes(road),
		Category:         Categorize(road),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
