package rest

import "encoding/json"

// resource is a JSON:API resource object. Attributes stay loosely typed;
// typed hydration happens per endpoint.
type resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

// relationship keeps its data member raw because the wire uses both shapes:
// to-one (owner) and to-many (group_permissions, host_worksheets).
type relationship struct {
	Data json.RawMessage `json:"data"`
}

type resourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// One decodes a to-one relationship target.
func (r relationship) One() (resourceIdentifier, bool) {
	var id resourceIdentifier
	if err := json.Unmarshal(r.Data, &id); err != nil || id.Type == "" {
		return resourceIdentifier{}, false
	}
	return id, true
}

// Many decodes a to-many relationship; a to-one data member yields a
// single-element slice.
func (r relationship) Many() []resourceIdentifier {
	var ids []resourceIdentifier
	if err := json.Unmarshal(r.Data, &ids); err == nil {
		return ids
	}
	if id, ok := r.One(); ok {
		return []resourceIdentifier{id}
	}
	return nil
}

// document is a JSON:API envelope whose data member may be a single resource
// or an array. DataList normalizes both shapes.
type document struct {
	Data     json.RawMessage `json:"data,omitempty"`
	Included []resource      `json:"included,omitempty"`

	parsed []resource
}

func (d *document) DataList() []resource {
	if d.parsed != nil {
		return d.parsed
	}
	if len(d.Data) == 0 {
		return nil
	}
	var many []resource
	if err := json.Unmarshal(d.Data, &many); err == nil {
		d.parsed = many
		return d.parsed
	}
	var one resource
	if err := json.Unmarshal(d.Data, &one); err == nil {
		d.parsed = []resource{one}
	}
	return d.parsed
}

// findIncluded resolves a relationship target from the envelope's included
// resources.
func (d *document) findIncluded(typ, id string) *resource {
	for i := range d.Included {
		if d.Included[i].Type == typ && d.Included[i].ID == id {
			return &d.Included[i]
		}
	}
	return nil
}

// MarshalJSON keeps outbound envelopes symmetric with inbound ones: a
// document built with a typed data slice marshals that slice under "data".
func (d document) MarshalJSON() ([]byte, error) {
	type alias struct {
		Data     any        `json:"data"`
		Included []resource `json:"included,omitempty"`
	}
	if d.parsed != nil {
		return json.Marshal(alias{Data: d.parsed, Included: d.Included})
	}
	return json.Marshal(alias{Data: d.Data, Included: d.Included})
}

// newDocument builds an outbound envelope from typed resources.
func newDocument(rs ...resource) document {
	return document{parsed: rs}
}
