package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricing-service/internal/formula"
)

func TestEvaluate(t *testing.T) {
	bindings := map[string]float64{
		"basePrice":     800,
		"quantity":      150,
		"finishingCost": 200,
	}

	tests := []struct {
		name       string
		expression string
		want       float64
	}{
		{"literal", "42", 42},
		{"decimal literal", "1.5 * 4", 6},
		{"variable", "basePrice", 800},
		{"precedence", "2 + 3 * 4", 14},
		{"parentheses", "(2 + 3) * 4", 20},
		{"unary minus", "-basePrice + 1000", 200},
		{"double unary minus", "--4", 4},
		{"division", "quantity / 3", 50},
		{"subtraction chain", "10 - 4 - 3", 3},
		{"pricing formula", "basePrice * quantity + finishingCost * quantity", 150000},
		{"whitespace", "  basePrice\t*\n2 ", 1600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formula.Evaluate(tt.expression, bindings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateSyntaxErrors(t *testing.T) {
	bindings := map[string]float64{"x": 1}

	tests := []struct {
		name       string
		expression string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"unbalanced open", "(x + 1"},
		{"unbalanced close", "x + 1)"},
		{"dangling operator", "x +"},
		{"leading operator", "* x"},
		{"double operator", "x * / 2"},
		{"unknown character", "x + $y"},
		{"function call", "max(x, 2)"},
		{"statement separator", "x; 2"},
		{"bad number", "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formula.Evaluate(tt.expression, bindings)
			require.Error(t, err)
			assert.ErrorIs(t, err, formula.ErrFormulaSyntax)
		})
	}
}

func TestEvaluateUnboundVariable(t *testing.T) {
	_, err := formula.Evaluate("basePrice * quantity", map[string]float64{"basePrice": 800})
	require.Error(t, err)
	assert.ErrorIs(t, err, formula.ErrUnboundVariable)
	assert.Contains(t, err.Error(), "quantity")
}

func TestEvaluateNonFinite(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		bindings   map[string]float64
	}{
		{"division by zero", "1 / 0", nil},
		{"division by zero variable", "x / y", map[string]float64{"x": 1, "y": 0}},
		{"zero over zero", "0 / 0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formula.Evaluate(tt.expression, tt.bindings)
			require.Error(t, err)
			assert.ErrorIs(t, err, formula.ErrFormulaEvaluation)
		})
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	bindings := map[string]float64{
		"basePrice":       800,
		"quantity":        150,
		"paperMultiplier": 1.2,
		"colorMultiplier": 1.3,
	}
	expression := "basePrice * quantity * paperMultiplier * colorMultiplier"

	first, err := formula.Evaluate(expression, bindings)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := formula.Evaluate(expression, bindings)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, formula.Validate("basePrice * quantity + finishingCost * quantity"))
	assert.ErrorIs(t, formula.Validate("basePrice *"), formula.ErrFormulaSyntax)
	// Validation does not require bindings, only a well-formed expression.
	assert.NoError(t, formula.Validate("anyVariableAtAll + 1"))
}

func TestVariables(t *testing.T) {
	names, err := formula.Variables("basePrice * quantity + finishingCost * quantity - 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"basePrice", "finishingCost", "quantity"}, names)

	names, err = formula.Variables("1 + 2")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = formula.Variables("a + ")
	assert.ErrorIs(t, err, formula.ErrFormulaSyntax)
}
