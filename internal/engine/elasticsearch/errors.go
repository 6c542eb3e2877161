package elasticsearch

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// engineErrorBody is the nested error structure Elasticsearch returns on
// failed requests.
type engineErrorBody struct {
	Error struct {
		Type      string        `json:"type"`
		Reason    string        `json:"reason"`
		RootCause []errorCause  `json:"root_cause"`
		CausedBy  *errorCause   `json:"caused_by"`
	} `json:"error"`
	Status int `json:"status"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// normalizedReason extracts the most specific human-readable message from
// the error body: the first root cause, else the caused-by node, else the
// top-level reason.
func (b *engineErrorBody) normalizedReason() string {
	if len(b.Error.RootCause) > 0 && b.Error.RootCause[0].Reason != "" {
		return b.Error.RootCause[0].Reason
	}
	if b.Error.CausedBy != nil && b.Error.CausedBy.Reason != "" {
		return b.Error.CausedBy.Reason
	}
	return b.Error.Reason
}

// classifyError turns a failed engine response into an AppError: 4xx maps
// to a client input error, everything else to a gateway error carrying the
// normalized message. Raw engine errors never escape to callers.
func (e *Engine) classifyError(op string, res *esapi.Response) error {
	var body engineErrorBody
	reason := ""
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		reason = body.normalizedReason()
	}
	if reason == "" {
		reason = fmt.Sprintf("unexpected status %s", res.Status())
	}

	message := fmt.Sprintf("%s: %s", op, reason)

	switch {
	case res.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(op, reason)
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		return apperrors.InvalidInput(message)
	default:
		return apperrors.BadGateway(message, nil)
	}
}
