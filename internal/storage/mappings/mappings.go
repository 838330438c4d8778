// Package mappings declares the Elasticsearch index mappings for the raw
// capture and canonical job indices.
package mappings

// keywordField is a non-analyzed exact-match field.
func keywordField() map[string]any {
	return map[string]any{"type": "keyword"}
}

// textField is an analyzed full-text field.
func textField() map[string]any {
	return map[string]any{"type": "text"}
}

// dateField stores timestamps.
func dateField() map[string]any {
	return map[string]any{"type": "date"}
}

// RawPostings returns the mapping for the raw capture index. The payload
// stays unindexed: it is audit data, re-processed in Go, never queried by
// field.
func RawPostings() map[string]any {
	return map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"key":        keywordField(),
				"source":     keywordField(),
				"url":        keywordField(),
				"payload":    map[string]any{"type": "object", "enabled": false},
				"fetched_at": dateField(),
			},
		},
	}
}

// Jobs returns the mapping for the canonical job index.
func Jobs() map[string]any {
	return map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"source":      keywordField(),
				"external_id": keywordField(),
				"title":       textField(),
				"company":     textField(),
				"description": textField(),
				"skills":      keywordField(),
				"tags":        keywordField(),
				"type":        keywordField(),
				"level":       keywordField(),
				"url":         keywordField(),
				"location": map[string]any{
					"properties": map[string]any{
						"city":     keywordField(),
						"district": keywordField(),
						"country":  keywordField(),
					},
				},
				"ai_analysis": map[string]any{
					"properties": map[string]any{
						"is_intern":  map[string]any{"type": "boolean"},
						"confidence": map[string]any{"type": "float"},
						"method":     keywordField(),
					},
				},
				"post_date":   dateField(),
				"expire_date": dateField(),
				"created_at":  dateField(),
				"updated_at":  dateField(),
			},
		},
	}
}
