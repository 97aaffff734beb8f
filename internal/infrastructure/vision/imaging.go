package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"jigsaw-bot/internal/domain/port"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/geometry"
)

// NormalizePhoto оставляет JPEG и PNG как есть, а TIFF, WebP и BMP
// перекодирует в PNG, который понимает сегментатор.
func NormalizePhoto(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperrors.NewValidationError("unsupported image format", err)
	}
	if format == "jpeg" || format == "png" {
		return data, format, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, apperrors.NewValidationError(fmt.Sprintf("decode %s image", format), err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, format, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), format, nil
}

// TransformImage применяет аффинное преобразование к изображению; размер
// результата совпадает с исходным, всё, что вышло за края, обрезается.
func TransformImage(src image.Image, t geometry.Affine) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	s2d := f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
	draw.BiLinear.Transform(dst, s2d, src, b, draw.Src, nil)
	return dst
}

// RotateImage поворачивает изображение вокруг center тем же преобразованием,
// что и entity.Piece.Rotate поворачивает контур.
func RotateImage(src image.Image, center image.Point, radians float64) image.Image {
	return TransformImage(src, geometry.RotationAbout(center, radians))
}

// Imaging реализация port.ImageRotator на golang.org/x/image
type Imaging struct{}

// RotateImage см. функцию RotateImage
func (Imaging) RotateImage(img image.Image, center image.Point, radians float64) image.Image {
	return RotateImage(img, center, radians)
}

var _ port.ImageRotator = Imaging{}
