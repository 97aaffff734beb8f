package storage

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strconv"

	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
)

// Формат .edg: первая строка количество точек, затем по строке "x y" на точку.
// Дальше необязательно строка опорной точки "x y" и четыре строки
// "индекс_угла тип_стороны" (0 плоская, 1 впадина, 2 выступ).
// Файл только со списком точек читается как неклассифицированная деталь.

// EncodePiece записывает деталь в формате .edg
func EncodePiece(w io.Writer, p *entity.Piece) error {
	bw := bufio.NewWriter(w)
	boundary := p.Boundary()

	fmt.Fprintf(bw, "%d\n", len(boundary))
	for _, pt := range boundary {
		fmt.Fprintf(bw, "%d %d\n", pt.X, pt.Y)
	}
	o := p.Origin()
	fmt.Fprintf(bw, "%d %d\n", o.X, o.Y)

	if corners, ok := p.Corners(); ok {
		for i, idx := range corners {
			fmt.Fprintf(bw, "%d %d\n", idx, int(p.EdgeType(i)))
		}
	}
	return bw.Flush()
}

// DecodePiece читает деталь в формате .edg; img может быть nil
func DecodePiece(r io.Reader, id string, img image.Image) (*entity.Piece, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var nums []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("piece %s: bad number %q", id, sc.Text()), err)
		}
		nums = append(nums, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read piece %s: %w", id, err)
	}
	if len(nums) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("piece %s: empty file", id), nil)
	}

	count := nums[0]
	rest := nums[1:]
	if count < 0 || count > len(rest)/2 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("piece %s: declared %d points, file has %d numbers", id, count, len(rest)), nil)
	}

	points := make([]image.Point, count)
	for i := range points {
		points[i] = image.Pt(rest[2*i], rest[2*i+1])
	}
	rest = rest[2*count:]

	switch len(rest) {
	case 0:
		// контур из сегментатора: ориентация ещё не приведена
		return entity.NewPiece(id, points, img)
	case 2:
		return entity.RestorePiece(id, points, img, image.Pt(rest[0], rest[1]), nil, [entity.EdgeCount]entity.EdgeType{})
	case 2 + 2*entity.EdgeCount:
		origin := image.Pt(rest[0], rest[1])
		var corners entity.CornerIndexes
		var types [entity.EdgeCount]entity.EdgeType
		for i := 0; i < entity.EdgeCount; i++ {
			corners[i] = rest[2+2*i]
			types[i] = entity.EdgeType(rest[3+2*i])
		}
		return entity.RestorePiece(id, points, img, origin, &corners, types)
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("piece %s: %d unexpected trailing numbers", id, len(rest)), nil)
}
