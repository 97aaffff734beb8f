package entity

import "fmt"

// DistanceMeasure вторичная мера близости кривых
type DistanceMeasure string

const (
	MeasureAverage   DistanceMeasure = "average"   // среднее расстояние до ближайшей точки
	MeasureHausdorff DistanceMeasure = "hausdorff" // максимум расстояний до ближайшей точки
)

// ParseDistanceMeasure разбирает имя меры из конфигурации
func ParseDistanceMeasure(s string) (DistanceMeasure, error) {
	switch DistanceMeasure(s) {
	case MeasureAverage, MeasureHausdorff:
		return DistanceMeasure(s), nil
	}
	return "", fmt.Errorf("unknown distance measure %q", s)
}

// MatchResult итог сравнения двух нормализованных сторон
type MatchResult struct {
	CouplingDistance  float64         `json:"coupling_distance"`
	SecondaryDistance float64         `json:"secondary_distance"`
	Secondary         DistanceMeasure `json:"secondary_measure"`
	Match             bool            `json:"match"`
}

// EdgeRef ссылка на сторону конкретной детали
type EdgeRef struct {
	PieceID string `json:"piece_id"`
	Edge    int    `json:"edge"`
}

func (r EdgeRef) String() string {
	return fmt.Sprintf("%s/%s", r.PieceID, EdgeName(r.Edge))
}

// EdgeMatch результат сопоставления впадины (In) и выступа (Out)
type EdgeMatch struct {
	In       EdgeRef     `json:"in"`
	Out      EdgeRef     `json:"out"`
	Result   MatchResult `json:"result"`
	Warnings []string    `json:"warnings,omitempty"`
}
