package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	cases := map[int]Kind{
		http.StatusUnprocessableEntity: KindValidation,
		http.StatusBadRequest:          KindValidation,
		http.StatusUnauthorized:        KindUnauthorized,
		http.StatusNotFound:            KindNotFound,
		http.StatusInternalServerError: KindServerFault,
		http.StatusBadGateway:          KindServerFault,
		http.StatusConflict:            KindUnexpected,
	}
	for status, want := range cases {
		err := FromStatus("list_by_date", status, nil)
		assert.Equal(t, want, err.Kind, "status %d", status)
		assert.Equal(t, status, err.HTTPStatus)
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := Unreachable("statistics", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("refresh: %w", base)

	assert.Equal(t, KindUnreachable, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindUnreachable))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindUnreachable))
	assert.Contains(t, base.Error(), "dial tcp")
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(FromStatus("x", 422, nil)), "formato de fechas")
	assert.Contains(t, UserMessage(FromStatus("x", 500, nil)), "base de datos")
	assert.Contains(t, UserMessage(Unreachable("x", nil)), "No se pudo conectar")
	assert.Contains(t, UserMessage(errors.New("boom")), "Error al cargar los datos")
	assert.Contains(t, UserMessage(FromStatus("x", 404, nil)), "Error al cargar los datos")
}
