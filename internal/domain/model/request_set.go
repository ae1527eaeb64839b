package model

// RequestSet is a collection of request specs keyed by URL. Putting a spec
// whose URL is already present replaces the earlier entry in place.
type RequestSet struct {
	order []string
	specs map[string]*RequestSpec
}

// NewRequestSet creates an empty RequestSet
func NewRequestSet() *RequestSet {
	return &RequestSet{specs: make(map[string]*RequestSpec)}
}

// Put inserts or replaces a spec. It reports whether an entry was replaced.
func (r *RequestSet) Put(spec *RequestSpec) bool {
	key := spec.Key()
	_, exists := r.specs[key]
	if !exists {
		r.order = append(r.order, key)
	}
	r.specs[key] = spec
	return exists
}

// Get returns the spec stored for a URL
func (r *RequestSet) Get(rawURL string) (*RequestSpec, bool) {
	spec, ok := r.specs[rawURL]
	return spec, ok
}

// Len returns the number of distinct URLs
func (r *RequestSet) Len() int {
	return len(r.order)
}

// Specs returns the specs in first-insertion order
func (r *RequestSet) Specs() []*RequestSpec {
	out := make([]*RequestSpec, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.specs[key])
	}
	return out
}
