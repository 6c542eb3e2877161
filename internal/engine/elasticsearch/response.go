package elasticsearch

import "encoding/json"

// searchResponse is the typed shape of an Elasticsearch search response.
// Bodies are decoded with UseNumber so sort values and bucket keys keep
// their exact numeric representation for cursor echoing.
type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total totalSection `json:"total"`
		Hits  []searchHit  `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]aggSection   `json:"aggregations"`
	Suggest      map[string][]suggestHit `json:"suggest"`
}

type totalSection struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

type searchHit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
	Sort   []any           `json:"sort"`
}

type aggSection struct {
	Buckets []aggBucket `json:"buckets"`
	Value   *float64    `json:"value"`
}

type aggBucket struct {
	Key      any   `json:"key"`
	DocCount int64 `json:"doc_count"`
}

type suggestHit struct {
	Text    string          `json:"text"`
	Options []suggestOption `json:"options"`
}

type suggestOption struct {
	Text string `json:"text"`
}

// getResponse is the shape of a document get response.
type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

// bulkResponse is the shape of a bulk response; only update items appear
// since every operation this engine emits is a scripted update.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Update struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"update"`
	} `json:"items"`
}

// deleteByQueryResponse is the shape of a delete-by-query response.
type deleteByQueryResponse struct {
	Deleted int64 `json:"deleted"`
}
