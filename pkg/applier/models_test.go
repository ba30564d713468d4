package applier_test

import (
	"testing"

	"github.com/feedbridge/glsbridge/pkg/applier"
	"github.com/stretchr/testify/assert"
)

func TestValues_Bool_Coercions(t *testing.T) {
	values := applier.Values{
		"native":       true,
		"number":       float64(1),
		"zero":         float64(0),
		"int":          1,
		"string-one":   "1",
		"string-true":  "true",
		"string-junk":  "yes",
		"string-false": "false",
	}

	assert.True(t, values.Bool("native"))
	assert.True(t, values.Bool("number"))
	assert.False(t, values.Bool("zero"))
	assert.True(t, values.Bool("int"))
	assert.True(t, values.Bool("string-one"))
	assert.True(t, values.Bool("string-true"))
	assert.False(t, values.Bool("string-junk"))
	assert.False(t, values.Bool("string-false"))
	assert.False(t, values.Bool("absent"))
}

func TestValues_String(t *testing.T) {
	values := applier.Values{"title": "GLS France", "flag": true}

	assert.Equal(t, "GLS France", values.String("title"))
	assert.Empty(t, values.String("flag"))
	assert.Empty(t, values.String("absent"))
}

func TestResult_AdditionalData(t *testing.T) {
	result := &applier.Result{CarrierCode: "gls", MethodCode: "relay_point"}

	assert.Empty(t, result.AdditionalData("relay_point_id"))

	result.SetAdditionalData("relay_point_id", "2500012345")
	assert.Equal(t, "2500012345", result.AdditionalData("relay_point_id"))

	result.SetAdditionalData("relay_point_id", "2500054321")
	assert.Equal(t, "2500054321", result.AdditionalData("relay_point_id"))
}
