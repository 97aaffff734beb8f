package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsType_Wrapped(t *testing.T) {
	err := fmt.Errorf("classify piece 7: %w", NewInvalidPieceGeometry("no valid corners", nil))

	require.True(t, IsType(err, ErrorTypeInvalidPieceGeometry))
	require.False(t, IsType(err, ErrorTypeDegenerateEdge))
	require.False(t, IsType(io.EOF, ErrorTypeInvalidPieceGeometry))
}

func TestCodes(t *testing.T) {
	tests := []struct {
		err    error
		status int
		exit   int
	}{
		{NewInvalidPieceGeometry("x", nil), http.StatusUnprocessableEntity, ExitInvalidPiece},
		{NewDegenerateEdge("x", nil), http.StatusUnprocessableEntity, ExitDegenerateEdge},
		{NewIncompatibleEdges("x", nil), http.StatusUnprocessableEntity, ExitIncompatibleEdges},
		{NewSearchBudgetExceeded("x", nil), http.StatusUnprocessableEntity, ExitSearchBudgetExceeded},
		{NewValidationError("x", nil), http.StatusBadRequest, ExitUsage},
		{NewNotFoundError("x", nil), http.StatusNotFound, ExitNotFound},
		{fmt.Errorf("wrap: %w", NewNotFoundError("x", nil)), http.StatusNotFound, ExitNotFound},
		{io.EOF, http.StatusInternalServerError, ExitInternal},
	}

	for _, tt := range tests {
		require.Equal(t, tt.status, GetStatusCode(tt.err), tt.err.Error())
		require.Equal(t, tt.exit, GetExitCode(tt.err), tt.err.Error())
	}
	require.Equal(t, ExitOK, GetExitCode(nil))
}

func TestAppError_Message(t *testing.T) {
	err := NewDegenerateEdge("side 2 has 1 point", io.ErrUnexpectedEOF)
	require.Equal(t, "degenerate_edge: side 2 has 1 point (caused by: unexpected EOF)", err.Error())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	detailed := err.WithDetails("piece %s", "a1")
	require.Equal(t, "piece a1", detailed.Details)
	require.Empty(t, err.Details)
}
