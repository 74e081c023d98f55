// Package aggregate groups predicted entity spans by label.
package aggregate

import "github.com/siherrmann/headliner/model"

// BuildIndex collects, for every label, the spans predicted with exactly that
// label in document order, then span order. Spans whose label is not in labels
// are left out. The documents are not modified.
func BuildIndex(docs []*model.AnnotatedDocument, labels []string) *model.EntityTypeIndex {
	index := model.NewEntityTypeIndex(labels)

	for _, label := range index.Labels {
		bucket := index.Buckets[label]
		for _, doc := range docs {
			if doc == nil {
				continue
			}
			for _, span := range doc.Entities {
				if span != nil && span.Label == label {
					bucket = append(bucket, span)
				}
			}
		}
		index.Buckets[label] = bucket
	}

	return index
}

// CountRecognized returns the number of spans whose label is in labels
func CountRecognized(docs []*model.AnnotatedDocument, labels []string) int {
	recognized := make(map[string]bool, len(labels))
	for _, label := range labels {
		recognized[label] = true
	}

	count := 0
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, span := range doc.Entities {
			if span != nil && recognized[span.Label] {
				count++
			}
		}
	}
	return count
}
