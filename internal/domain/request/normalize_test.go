package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

func TestNormalizeRow_UppercaseFields(t *testing.T) {
	raw := map[string]any{
		"CODPETICIONES": float64(42),
		"CODCATEGORIA":  float64(300),
		"CODESTADO":     float64(2),
		"USUSOLICITA":   "cmarin",
		"FESOLICITA":    "2026-08-14T10:30:00",
		"DESCRIPTION":   "Cannot log into my domain account",
	}

	req, err := NormalizeRow(raw)
	require.NoError(t, err)
	assert.Equal(t, 42, req.ID)
	assert.Equal(t, 300, req.CategoryID)
	require.NotNil(t, req.StatusID)
	assert.Equal(t, 2, *req.StatusID)
	assert.Equal(t, "cmarin", req.RequestedBy)
	assert.Equal(t, "Cannot log into my domain account", req.Description)
}

func TestNormalizeRow_LowercaseFields(t *testing.T) {
	raw := map[string]any{
		"codpeticiones": float64(7),
		"codcategoria":  float64(400),
		"ususolicita":   "jperez",
		"fesolicita":    "2026-08-14T11:00:00",
		"description":   "Amerika password expired",
		"codestado":     nil,
	}

	req, err := NormalizeRow(raw)
	require.NoError(t, err)
	assert.Equal(t, 7, req.ID)
	assert.Equal(t, 400, req.CategoryID)
	assert.Nil(t, req.StatusID)
	assert.Equal(t, "Pending", req.StatusLabel())
}

func TestNormalizeRow_MixedCasingPrefersUppercase(t *testing.T) {
	raw := map[string]any{
		"CODPETICIONES": float64(5),
		"codpeticiones": float64(6),
		"DESCRIPTION":   "upper",
		"description":   "lower",
	}

	req, err := NormalizeRow(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, req.ID)
	assert.Equal(t, "upper", req.Description)
}

func TestNormalizeRow_MissingID(t *testing.T) {
	raw := map[string]any{
		"DESCRIPTION": "no id here",
	}

	_, err := NormalizeRow(raw)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeRealtime, appErr.Type)
}

func TestNormalizeRow_NilRow(t *testing.T) {
	_, err := NormalizeRow(nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeRealtime, apperrors.GetAppError(err).Type)
}

func TestNormalizeRow_ClassificationAsEmbeddedJSON(t *testing.T) {
	raw := map[string]any{
		"CODPETICIONES":          float64(9),
		"AI_CLASSIFICATION_DATA": `{"app_type":"dominio","confidence":0.93,"detected_actions":["reset_password"],"classification_timestamp":"2026-08-14T10:31:00Z"}`,
	}

	req, err := NormalizeRow(raw)
	require.NoError(t, err)
	require.NotNil(t, req.AIClassification)
	assert.Equal(t, "dominio", req.AIClassification.AppType)
	assert.InDelta(t, 0.93, req.AIClassification.Confidence, 1e-9)
	assert.Equal(t, []string{"reset_password"}, req.AIClassification.DetectedActions)
}

func TestNormalizeRow_ClassificationAsObject(t *testing.T) {
	raw := map[string]any{
		"codpeticiones": float64(10),
		"ai_classification_data": map[string]any{
			"app_type":   "amerika",
			"confidence": 0.71,
		},
	}

	req, err := NormalizeRow(raw)
	require.NoError(t, err)
	require.NotNil(t, req.AIClassification)
	assert.Equal(t, "amerika", req.AIClassification.AppType)
	assert.True(t, IsValidAppType(req.AIClassification.AppType))
}

func TestParseEventKind(t *testing.T) {
	for _, valid := range []string{"INSERT", "UPDATE", "DELETE"} {
		kind, err := ParseEventKind(valid)
		require.NoError(t, err)
		assert.Equal(t, EventKind(valid), kind)
	}

	_, err := ParseEventKind("TRUNCATE")
	assert.Error(t, err)
	_, err = ParseEventKind("insert")
	assert.Error(t, err)
}

func TestCategoryLabelFallback(t *testing.T) {
	req := Request{CategoryID: 999}
	assert.Equal(t, "Unknown", req.CategoryLabel())

	req.CategoryID = 300
	assert.Equal(t, "Domain Account Password Change", req.CategoryLabel())
}
