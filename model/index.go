package model

// EntityTypeIndex maps each recognized label to the spans predicted with it.
// Buckets keep document order, then span order within a document.
type EntityTypeIndex struct {
	Labels  []string                 `json:"labels"`
	Buckets map[string][]*EntitySpan `json:"buckets"`
}

// NewEntityTypeIndex creates an index with an empty bucket per label.
// Duplicate labels are collapsed, the first occurrence keeps its position.
func NewEntityTypeIndex(labels []string) *EntityTypeIndex {
	index := &EntityTypeIndex{
		Labels:  make([]string, 0, len(labels)),
		Buckets: make(map[string][]*EntitySpan, len(labels)),
	}
	for _, label := range labels {
		if _, ok := index.Buckets[label]; ok {
			continue
		}
		index.Labels = append(index.Labels, label)
		index.Buckets[label] = []*EntitySpan{}
	}
	return index
}

// Has reports whether label is recognized by the index
func (i *EntityTypeIndex) Has(label string) bool {
	_, ok := i.Buckets[label]
	return ok
}

// Get returns the bucket of label, nil if the label is not recognized
func (i *EntityTypeIndex) Get(label string) []*EntitySpan {
	return i.Buckets[label]
}

// Count returns the number of spans over all buckets
func (i *EntityTypeIndex) Count() int {
	count := 0
	for _, bucket := range i.Buckets {
		count += len(bucket)
	}
	return count
}

// Texts returns the surface texts of a bucket in order
func (i *EntityTypeIndex) Texts(label string) []string {
	bucket := i.Get(label)
	texts := make([]string, 0, len(bucket))
	for _, span := range bucket {
		texts = append(texts, span.Text)
	}
	return texts
}
