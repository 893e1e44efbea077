package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Metadata data type tags inferred from string values.
const (
	DataTypeBoolean = "boolean"
	DataTypeNumber  = "number"
	DataTypeDate    = "date"
	DataTypeJSON    = "json"
	DataTypeString  = "string"
)

// DocumentMetadata is a single key/value attribute attached to a document.
// At most one row exists per (DocumentID, Key); writes must go through the
// repository upsert. The classification-history key is the one exception and
// is append-only.
type DocumentMetadata struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	DataType   string    `json:"data_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// dateLayouts are the accepted date formats, checked in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// InferDataType classifies a metadata value string into one of the data type
// tags. Ambiguous values are resolved by a fixed precedence:
// boolean, number, date, json, string. A value such as "2006" is therefore
// tagged as a number even though it also parses as a year.
func InferDataType(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return DataTypeString
	}
	if _, err := strconv.ParseBool(v); err == nil {
		return DataTypeBoolean
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return DataTypeNumber
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return DataTypeDate
		}
	}
	if (strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}")) ||
		(strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]")) {
		if json.Valid([]byte(v)) {
			return DataTypeJSON
		}
	}
	return DataTypeString
}
