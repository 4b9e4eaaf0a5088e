package request

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

// legacyFieldNames maps the uppercase column names the change feed emits
// onto the lowercase names the REST API uses. Both spellings appear on
// the wire; only the lowercase form is canonical.
var legacyFieldNames = map[string]string{
	"CODPETICIONES":          "codpeticiones",
	"CODCATEGORIA":           "codcategoria",
	"CODESTADO":              "codestado",
	"CODPRIORIDAD":           "codprioridad",
	"CODGRAVEDAD":            "codgravedad",
	"CODFRECUENCIA":          "codfrecuencia",
	"USUSOLICITA":            "ususolicita",
	"FESOLICITA":             "fesolicita",
	"DESCRIPTION":            "description",
	"SOLUCION":               "solucion",
	"FESOLUCION":             "fesolucion",
	"CODUSOLUCION":           "codusolucion",
	"CODGRUPO":               "codgrupo",
	"OPORTUNA":               "oportuna",
	"FECCIERRE":              "feccierre",
	"CODMOTCIERRE":           "codmotcierre",
	"AI_CLASSIFICATION_DATA": "ai_classification_data",
}

// NormalizeRow maps a raw feed row image, in either casing convention,
// onto the canonical Request shape. A row without an id is unusable and
// yields a realtime warning; callers log it and drop the event.
func NormalizeRow(raw map[string]any) (Request, error) {
	if raw == nil {
		return Request{}, apperrors.NewRealtimeWarning("change event carried no row image")
	}

	canonical := make(map[string]any, len(legacyFieldNames))
	for upper, lower := range legacyFieldNames {
		if v, ok := raw[upper]; ok {
			canonical[lower] = v
		} else if v, ok := raw[lower]; ok {
			canonical[lower] = v
		}
	}

	if !hasValue(canonical["codpeticiones"]) {
		return Request{}, apperrors.NewRealtimeWarning(
			"change event row missing codpeticiones",
			fmt.Sprintf("fields: %d", len(raw)),
		)
	}

	// The feed delivers jsonb columns as embedded JSON strings on some
	// poolers; unwrap before decoding.
	if s, ok := canonical["ai_classification_data"].(string); ok {
		var ai map[string]any
		if err := json.Unmarshal([]byte(s), &ai); err == nil {
			canonical["ai_classification_data"] = ai
		} else {
			delete(canonical, "ai_classification_data")
		}
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return Request{}, apperrors.NewRealtimeWarning("change event row not serializable", err.Error())
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, apperrors.NewRealtimeWarning("change event row has malformed fields", err.Error())
	}
	return req, nil
}

func hasValue(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case float64:
		return n != 0
	case json.Number:
		return n.String() != "0" && n.String() != ""
	case int:
		return n != 0
	}
	return true
}
