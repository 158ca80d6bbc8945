// Package serializer converts record snapshots to and from the REST payload
// shape used by the bodyweight API: one envelope per model name, camel-cased
// keys, and integer relationship identifiers.
package serializer

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrKeyCoercion = errors.New("relationship key is not numeric")
	ErrUnknownKind = errors.New("unknown model kind")
	ErrBadPayload  = errors.New("malformed payload")
)

type Cardinality int

const (
	BelongsTo Cardinality = iota
	HasMany
)

func (c Cardinality) String() string {
	if c == HasMany {
		return "hasMany"
	}
	return "belongsTo"
}

type Descriptor struct {
	Key         string
	Cardinality Cardinality
	Type        string
}

type Schema struct {
	Kind          string
	Attributes    []string
	Relationships []Descriptor
}

type Relationship struct {
	ID  string
	IDs []string
}

// Snapshot is the serializer's view of a record. Identifiers are textual, as
// produced by the store; the relationship coercion turns them into integers on
// the way out.
type Snapshot struct {
	Kind          string
	ID            string
	Attributes    map[string]any
	Relationships map[string]Relationship
}

type Serializer struct {
	// KeyForAttribute and KeyForRelationship rename fields on the wire.
	// When nil the model's own key is used.
	KeyForAttribute    func(attr string) string
	KeyForRelationship func(key string, c Cardinality) string

	logger  *zap.Logger
	schemas map[string]Schema
}

func New(logger *zap.Logger, schemas ...Schema) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Serializer{logger: logger, schemas: make(map[string]Schema, len(schemas))}
	for _, sc := range schemas {
		s.schemas[sc.Kind] = sc
	}
	return s
}

func (s *Serializer) Schema(kind string) (Schema, error) {
	sc, ok := s.schemas[kind]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return sc, nil
}

func PayloadKey(kind string) string {
	return kind
}

// PluralKey is the envelope key for a collection of kind and also the URL
// path segment.
func PluralKey(kind string) string {
	switch {
	case strings.HasSuffix(kind, "s"), strings.HasSuffix(kind, "x"), strings.HasSuffix(kind, "ch"):
		return kind + "es"
	case strings.HasSuffix(kind, "y") && len(kind) > 1 && !strings.ContainsRune("aeiou", rune(kind[len(kind)-2])):
		return kind[:len(kind)-1] + "ies"
	default:
		return kind + "s"
	}
}

func (s *Serializer) attrKey(attr string) string {
	if s.KeyForAttribute != nil {
		return s.KeyForAttribute(attr)
	}
	return attr
}

func (s *Serializer) relKey(key string, c Cardinality) string {
	if s.KeyForRelationship != nil {
		return s.KeyForRelationship(key, c)
	}
	return key
}

func (s *Serializer) Serialize(snap Snapshot) (map[string]any, error) {
	sc, err := s.Schema(snap.Kind)
	if err != nil {
		return nil, err
	}
	json := make(map[string]any, len(sc.Attributes)+len(sc.Relationships))
	for _, attr := range sc.Attributes {
		json[s.attrKey(attr)] = snap.Attributes[attr]
	}
	for _, rel := range sc.Relationships {
		switch rel.Cardinality {
		case BelongsTo:
			err = s.SerializeBelongsTo(snap, json, rel)
		case HasMany:
			err = s.SerializeHasMany(snap, json, rel)
		}
		if err != nil {
			return nil, err
		}
	}
	return json, nil
}

func (s *Serializer) SerializeIntoHash(hash map[string]any, snap Snapshot) error {
	body, err := s.Serialize(snap)
	if err != nil {
		return err
	}
	hash[PayloadKey(snap.Kind)] = body
	return nil
}

func (s *Serializer) SerializeBelongsTo(snap Snapshot, json map[string]any, rel Descriptor) error {
	s.serializeBelongsToDefault(snap, json, rel)
	return s.coerceField(snap, json, rel)
}

func (s *Serializer) SerializeHasMany(snap Snapshot, json map[string]any, rel Descriptor) error {
	s.serializeHasManyDefault(snap, json, rel)
	return s.coerceField(snap, json, rel)
}

func (s *Serializer) serializeBelongsToDefault(snap Snapshot, json map[string]any, rel Descriptor) {
	key := s.relKey(rel.Key, BelongsTo)
	id := snap.Relationships[rel.Key].ID
	if id == "" {
		json[key] = nil
		return
	}
	json[key] = id
}

func (s *Serializer) serializeHasManyDefault(snap Snapshot, json map[string]any, rel Descriptor) {
	ids := snap.Relationships[rel.Key].IDs
	out := make([]string, len(ids))
	copy(out, ids)
	json[s.relKey(rel.Key, HasMany)] = out
}

func (s *Serializer) coerceField(snap Snapshot, json map[string]any, rel Descriptor) error {
	key := s.relKey(rel.Key, rel.Cardinality)
	v, err := CoerceKey(json[key])
	if err != nil {
		s.logger.Warn("relationship key coercion failed",
			zap.String("kind", snap.Kind),
			zap.String("id", snap.ID),
			zap.String("relationship", rel.Key),
			zap.Stringer("cardinality", rel.Cardinality),
			zap.Error(err))
		return fmt.Errorf("serialize %s.%s: %w", snap.Kind, rel.Key, err)
	}
	json[key] = v
	return nil
}
