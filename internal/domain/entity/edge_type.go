package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// EdgeType тип стороны детали
type EdgeType int

const (
	EdgeFlat EdgeType = 0 // прямая сторона (край пазла)
	EdgeIn   EdgeType = 1 // впадина внутрь детали
	EdgeOut  EdgeType = 2 // выступ наружу
)

// EdgeCount количество сторон у детали
const EdgeCount = 4

// Позиции сторон в каноническом порядке обхода.
const (
	EdgeTop    = 0
	EdgeLeft   = 1
	EdgeBottom = 2
	EdgeRight  = 3
)

// Углы: сторона i идёт от угла i к углу i+1.
const (
	CornerTopRight    = 0
	CornerTopLeft     = 1
	CornerBottomLeft  = 2
	CornerBottomRight = 3
)

var edgeTypeNames = [...]string{"flat", "in", "out"}

var edgePositionNames = [EdgeCount]string{"top", "left", "bottom", "right"}

// String возвращает имя типа стороны
func (t EdgeType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("EdgeType(%d)", int(t))
	}
	return edgeTypeNames[t]
}

// Valid проверяет, что значение входит в FLAT/IN/OUT
func (t EdgeType) Valid() bool {
	return t >= EdgeFlat && t <= EdgeOut
}

// ParseEdgeType переводит числовой тег формата хранения в EdgeType
func ParseEdgeType(v int) (EdgeType, error) {
	t := EdgeType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("unknown edge type %d", v)
	}
	return t, nil
}

// EdgeName название стороны по индексу (top/left/bottom/right)
func EdgeName(i int) string {
	if i < 0 || i >= EdgeCount {
		return fmt.Sprintf("edge%d", i)
	}
	return edgePositionNames[i]
}

// ParseEdgeName разбирает сторону по имени (top/left/bottom/right) или индексу 0..3
func ParseEdgeName(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range edgePositionNames {
		if s == name {
			return i, nil
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i >= EdgeCount {
		return 0, fmt.Errorf("unknown edge %q", s)
	}
	return i, nil
}

// FormatEdgeTypes строка вида "top=flat left=in bottom=out right=flat"
func FormatEdgeTypes(types [EdgeCount]EdgeType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = EdgeName(i) + "=" + t.String()
	}
	return strings.Join(parts, " ")
}
