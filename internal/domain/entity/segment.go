package entity

import "image"

// SegmentedPiece контур одной детали, найденный на фотографии.
// Boundary задан в координатах Image (вырезанной области детали).
type SegmentedPiece struct {
	Boundary []image.Point
	Image    image.Image
	Offset   image.Point // положение вырезанной области на исходном фото
}
