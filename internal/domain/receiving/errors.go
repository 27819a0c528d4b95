package receiving

import (
	"fmt"
	"strings"
)

// WorkflowError agrupa los errores propios del flujo de recepción para que la
// capa HTTP los distinga de fallos de transporte o persistencia.
type WorkflowError interface {
	error
	workflowError()
}

// ItemViolation detalla una línea que viola un invariante de cantidades.
type ItemViolation struct {
	ItemID    string
	ProductID string
	Reason    string
}

func (v ItemViolation) String() string {
	return fmt.Sprintf("línea %s: %s", v.ItemID, v.Reason)
}

// ValidationError rechaza un lote completo de cantidades. Lista cada línea
// ofensiva para que el operador corrija solo esa sin reingresar todo.
type ValidationError struct {
	Violations []ItemViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "cantidades inválidas"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "cantidades inválidas: " + strings.Join(parts, "; ")
}

func (e *ValidationError) workflowError() {}

// InvalidStateError rechaza una acción no permitida por el estado actual del
// documento o de sus líneas. Nunca se ignora en silencio.
type InvalidStateError struct {
	Action string
	Status string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("acción %s no permitida (estado %s): %s", e.Action, e.Status, e.Reason)
}

func (e *InvalidStateError) workflowError() {}
