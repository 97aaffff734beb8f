// Package matcher приводит стороны деталей к общей системе координат и
// оценивает, насколько хорошо они стыкуются.
package matcher

import (
	"fmt"

	"jigsaw-bot/internal/domain/entity"
)

// Config пороги решения и допуск выравнивания
type Config struct {
	CouplingThreshold  float64                // максимальное расстояние сцепления для совпадения
	SecondaryThreshold float64                // максимальное значение вторичной меры
	Secondary          entity.DistanceMeasure // какая вторичная мера используется
	RotationTolerance  float64                // допуск проверки выравнивания хорды, градусы
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() Config {
	return Config{
		CouplingThreshold:  35,
		SecondaryThreshold: 12,
		Secondary:          entity.MeasureAverage,
		RotationTolerance:  2,
	}
}

// WithThresholds задаёт пороги решения
func (c Config) WithThresholds(coupling, secondary float64) Config {
	c.CouplingThreshold = coupling
	c.SecondaryThreshold = secondary
	return c
}

// WithSecondary задаёт вторичную меру
func (c Config) WithSecondary(m entity.DistanceMeasure) Config {
	c.Secondary = m
	return c
}

// Validate проверяет диапазоны значений
func (c Config) Validate() error {
	if c.CouplingThreshold <= 0 {
		return fmt.Errorf("coupling threshold must be > 0, got %v", c.CouplingThreshold)
	}
	if c.SecondaryThreshold <= 0 {
		return fmt.Errorf("secondary threshold must be > 0, got %v", c.SecondaryThreshold)
	}
	if _, err := entity.ParseDistanceMeasure(string(c.Secondary)); err != nil {
		return err
	}
	if c.RotationTolerance <= 0 || c.RotationTolerance >= 45 {
		return fmt.Errorf("rotation tolerance must be in (0, 45), got %v", c.RotationTolerance)
	}
	return nil
}
