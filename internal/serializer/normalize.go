package serializer

import "fmt"

// Normalize extracts the records of kind from a response payload. Both the
// single-record envelope ({"exercise": {...}}) and the collection envelope
// ({"exercises": [...]}) are accepted.
func (s *Serializer) Normalize(kind string, payload map[string]any) ([]Snapshot, error) {
	sc, err := s.Schema(kind)
	if err != nil {
		return nil, err
	}
	if one, ok := payload[PayloadKey(kind)]; ok {
		body, ok := one.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an object", ErrBadPayload, PayloadKey(kind))
		}
		snap, err := s.normalizeRecord(sc, body)
		if err != nil {
			return nil, err
		}
		return []Snapshot{snap}, nil
	}
	many, ok := payload[PluralKey(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: no %q or %q key", ErrBadPayload, PayloadKey(kind), PluralKey(kind))
	}
	items, ok := many.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", ErrBadPayload, PluralKey(kind))
	}
	out := make([]Snapshot, 0, len(items))
	for i, item := range items {
		body, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", ErrBadPayload, PluralKey(kind), i)
		}
		snap, err := s.normalizeRecord(sc, body)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func (s *Serializer) normalizeRecord(sc Schema, body map[string]any) (Snapshot, error) {
	id, err := textualID(body["id"])
	if err != nil {
		return Snapshot{}, fmt.Errorf("normalize %s id: %w", sc.Kind, err)
	}
	snap := Snapshot{
		Kind:          sc.Kind,
		ID:            id,
		Attributes:    make(map[string]any, len(sc.Attributes)),
		Relationships: make(map[string]Relationship, len(sc.Relationships)),
	}
	for _, attr := range sc.Attributes {
		if v, ok := body[s.attrKey(attr)]; ok {
			snap.Attributes[attr] = v
		}
	}
	for _, rel := range sc.Relationships {
		raw := body[s.relKey(rel.Key, rel.Cardinality)]
		switch rel.Cardinality {
		case BelongsTo:
			rid, err := textualID(raw)
			if err != nil {
				return Snapshot{}, fmt.Errorf("normalize %s.%s: %w", sc.Kind, rel.Key, err)
			}
			snap.Relationships[rel.Key] = Relationship{ID: rid}
		case HasMany:
			ids, err := textualIDs(raw)
			if err != nil {
				return Snapshot{}, fmt.Errorf("normalize %s.%s: %w", sc.Kind, rel.Key, err)
			}
			snap.Relationships[rel.Key] = Relationship{IDs: ids}
		}
	}
	return snap, nil
}

func textualIDs(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %T", ErrBadPayload, raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		id, err := textualID(item)
		if err != nil {
			return nil, err
		}
		if id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}
