// Package request holds the help-desk request domain model. Field names
// mirror the legacy HLP_PETICIONES wire contract; the Go names carry the
// meaning.
package request

import (
	"github.com/rbetancur/amg-desk-ai/internal/domain/request/valueobjects"
)

// Request is a user-submitted help-desk ticket. The id and all server
// timestamps are assigned by the backend; the client never fabricates
// them. Timestamps stay as ISO-8601 strings and are parsed for display
// only.
type Request struct {
	ID          int    `json:"codpeticiones"`
	CategoryID  int    `json:"codcategoria"`
	StatusID    *int   `json:"codestado"`
	PriorityID  *int   `json:"codprioridad"`
	SeverityID  *int   `json:"codgravedad"`
	FrequencyID *int   `json:"codfrecuencia"`
	RequestedBy string `json:"ususolicita"`
	RequestedAt string `json:"fesolicita"`
	Description string `json:"description"`

	Resolution *string `json:"solucion"`
	ResolvedAt *string `json:"fesolucion"`
	ResolvedBy *string `json:"codusolucion"`

	GroupID       *int    `json:"codgrupo"`
	OnTime        *string `json:"oportuna"`
	ClosedAt      *string `json:"feccierre"`
	CloseReasonID *int    `json:"codmotcierre"`

	AIClassification *AIClassification `json:"ai_classification_data"`
}

// MaxDescriptionLength is the backend column limit for Description.
const MaxDescriptionLength = 4000

// StatusLabel renders the status code as a display label. A nil status
// is treated as pending; unknown codes render as "Unknown".
func (r *Request) StatusLabel() string {
	return valueobjects.StatusLabelForCode(r.StatusID)
}

// CategoryLabel renders the category code as a display label.
func (r *Request) CategoryLabel() string {
	c, err := valueobjects.NewCategory(r.CategoryID)
	if err != nil {
		return "Unknown"
	}
	return c.Label()
}

// AIClassification is the annotation the AI agent attaches after
// classifying a request.
type AIClassification struct {
	AppType                 string   `json:"app_type"`
	Confidence              float64  `json:"confidence"`
	ClassificationTimestamp string   `json:"classification_timestamp"`
	DetectedActions         []string `json:"detected_actions"`
	RawClassification       string   `json:"raw_classification,omitempty"`
}

const (
	AppTypeAmerika = "amerika"
	AppTypeDominio = "dominio"
)

// IsValidAppType reports whether the classifier tag is one of the two
// known application types.
func IsValidAppType(s string) bool {
	return s == AppTypeAmerika || s == AppTypeDominio
}
