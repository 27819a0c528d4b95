package receiving_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
)

func TestEvalQC_Totalidad(t *testing.T) {
	cases := []struct {
		name     string
		passed   float64
		rejected float64
		want     string
	}{
		{"todo aprobado", 100, 0, entity.QCStatusPassed},
		{"cero y cero", 0, 0, entity.QCStatusPassed}, // rechazada == 0 gana
		{"todo rechazado", 0, 40, entity.QCStatusRejected},
		{"mixto", 20, 30, entity.QCStatusPartial},
		{"fraccional mixto", 0.5, 0.5, entity.QCStatusPartial},
		{"fraccional aprobado", 12.75, 0, entity.QCStatusPassed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := receiving.EvalQC(d(tc.passed), d(tc.rejected))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInitialQC(t *testing.T) {
	assert.Equal(t, entity.QCStatusArrived, receiving.InitialQC(true))
	assert.Equal(t, entity.QCStatusPending, receiving.InitialQC(false))
}
