package ksef_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturnia/ksef-processor/internal/ksef"
	"github.com/fakturnia/ksef-processor/internal/model"
)

const schemaDir = "../../schemas"

func encodeSample(t *testing.T, variant model.SchemaVariant) string {
	t.Helper()
	enc := ksef.NewEncoder(variant, ksef.WithClock(frozenClock()))
	xml, err := enc.Encode(sampleInvoice())
	require.NoError(t, err)
	return xml
}

func TestValidate_EncoderOutputConforms(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	for _, variant := range []model.SchemaVariant{model.SchemaFA2, model.SchemaFA3} {
		violations, err := v.Validate(encodeSample(t, variant), variant)
		require.NoError(t, err)
		assert.Empty(t, violations, "variant %s", variant)
	}
}

func TestValidate_MissingElement(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	xml := encodeSample(t, model.SchemaFA2)
	xml = strings.Replace(xml, "<KodWaluty>PLN</KodWaluty>", "", 1)

	violations, err := v.Validate(xml, model.SchemaFA2)
	require.NoError(t, err)
	require.NotEmpty(t, violations)

	found := false
	for _, viol := range violations {
		if strings.Contains(viol.Message, "KodWaluty") {
			found = true
			assert.Greater(t, viol.Line, 0)
		}
	}
	assert.True(t, found, "expected a violation naming KodWaluty, got %v", violations)
}

func TestValidate_UnexpectedElement(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	xml := encodeSample(t, model.SchemaFA2)
	xml = strings.Replace(xml, "<RodzajFaktury>", "<Nieznany>x</Nieznany><RodzajFaktury>", 1)

	violations, err := v.Validate(xml, model.SchemaFA2)
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.Contains(t, violations[0].Message, "Nieznany")
}

func TestValidate_OutOfOrder(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	xml := encodeSample(t, model.SchemaFA2)
	// Move P_2 ahead of P_1
	xml = strings.Replace(xml, "<P_1>2025-04-02</P_1>", "", 1)
	xml = strings.Replace(xml, "<P_2>1/4/2025</P_2>",
		"<P_2>1/4/2025</P_2><P_1>2025-04-02</P_1>", 1)

	violations, err := v.Validate(xml, model.SchemaFA2)
	require.NoError(t, err)
	require.NotEmpty(t, violations)

	found := false
	for _, viol := range violations {
		if strings.Contains(viol.Message, "out of order") {
			found = true
		}
	}
	assert.True(t, found, "expected an order violation, got %v", violations)
}

func TestValidate_WrongRoot(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	violations, err := v.Validate(`<?xml version="1.0"?><Dokument/>`, model.SchemaFA2)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "Faktura")
}

func TestValidate_MalformedXML(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	violations, err := v.Validate("<Faktura><Naglowek></Faktura>", model.SchemaFA2)
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.Contains(t, violations[0].Message, "malformed XML")
}

func TestValidate_LineNumbers(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	xml := encodeSample(t, model.SchemaFA2)
	lines := strings.Split(xml, "\n")

	// Find the line holding RodzajFaktury and inject a stray element
	// right before it; the violation must point at that line.
	target := 0
	for i, line := range lines {
		if strings.Contains(line, "<RodzajFaktury>") {
			target = i
			break
		}
	}
	require.Greater(t, target, 0)

	lines = append(lines[:target], append([]string{"        <Nieznany>x</Nieznany>"}, lines[target:]...)...)
	mutated := strings.Join(lines, "\n")

	violations, err := v.Validate(mutated, model.SchemaFA2)
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.Equal(t, target+1, violations[0].Line)
}

func TestValidate_SchemaNotFound(t *testing.T) {
	v := ksef.NewValidator(t.TempDir())

	_, err := v.Validate(encodeSample(t, model.SchemaFA2), model.SchemaFA2)
	require.Error(t, err)

	var notFound *model.SchemaNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, model.SchemaFA2, notFound.Variant)
}

func TestValidateFile(t *testing.T) {
	v := ksef.NewValidator(schemaDir)

	path := filepath.Join(t.TempDir(), "faktura.xml")
	require.NoError(t, os.WriteFile(path, []byte(encodeSample(t, model.SchemaFA2)), 0o644))

	violations, err := v.Validate(encodeSample(t, model.SchemaFA2), model.SchemaFA2)
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = v.ValidateFile(path, model.SchemaFA2)
	require.NoError(t, err)
	assert.Empty(t, violations)

	_, err = v.ValidateFile(filepath.Join(t.TempDir(), "nope.xml"), model.SchemaFA2)
	var missing *model.FileNotFoundError
	require.ErrorAs(t, err, &missing)
}

func TestSave_ValidatesBeforeWriting(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))
	v := ksef.NewValidator(schemaDir)

	path := filepath.Join(t.TempDir(), "out", "faktura.xml")
	require.NoError(t, ksef.Save(sampleInvoice(), path, enc, v))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Faktura")
}

func TestSave_NoFileOnMissingField(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))

	inv := sampleInvoice()
	inv.Number = ""

	path := filepath.Join(t.TempDir(), "faktura.xml")
	err := ksef.Save(inv, path, enc, ksef.NewValidator(schemaDir))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
