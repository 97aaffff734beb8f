// Package classifier находит углы детали и определяет типы её сторон.
package classifier

import "fmt"

// Config настройки поиска углов и классификации сторон
type Config struct {
	RightAngleTolerance  float64 // допуск на прямой угол при вершине четырёхугольника, градусы
	OriginAngleTolerance float64 // допуск на угол между соседними углами, видимыми из опорной точки, градусы
	MaxIterations        int     // лимит перебора четвёрок вершин (0 = без лимита)
	StrayFactor          float64 // порог отклонения = расстояние от опорной точки до хорды * StrayFactor
	BiasThreshold        int     // минимальный |перевес| отклонившихся точек, чтобы сторона не считалась плоской
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() Config {
	return Config{
		RightAngleTolerance:  8,
		OriginAngleTolerance: 40,
		MaxIterations:        10_000_000,
		StrayFactor:          0.2,
		BiasThreshold:        5,
	}
}

// WithAngleTolerance задаёт допуски на углы
func (c Config) WithAngleTolerance(rightAngle, originAngle float64) Config {
	c.RightAngleTolerance = rightAngle
	c.OriginAngleTolerance = originAngle
	return c
}

// WithMaxIterations задаёт лимит перебора
func (c Config) WithMaxIterations(n int) Config {
	c.MaxIterations = n
	return c
}

// Validate проверяет диапазоны значений
func (c Config) Validate() error {
	if c.RightAngleTolerance <= 0 || c.RightAngleTolerance >= 90 {
		return fmt.Errorf("right angle tolerance must be in (0, 90), got %v", c.RightAngleTolerance)
	}
	if c.OriginAngleTolerance <= 0 || c.OriginAngleTolerance >= 90 {
		return fmt.Errorf("origin angle tolerance must be in (0, 90), got %v", c.OriginAngleTolerance)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max iterations must be >= 0, got %d", c.MaxIterations)
	}
	if c.StrayFactor <= 0 {
		return fmt.Errorf("stray factor must be > 0, got %v", c.StrayFactor)
	}
	if c.BiasThreshold < 1 {
		return fmt.Errorf("bias threshold must be >= 1, got %d", c.BiasThreshold)
	}
	return nil
}
