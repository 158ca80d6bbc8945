package serializer_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prikhi/bodyweight-client/internal/serializer"
)

var sectionSchema = serializer.Schema{
	Kind:       "section",
	Attributes: []string{"name"},
	Relationships: []serializer.Descriptor{
		{Key: "routine", Cardinality: serializer.BelongsTo, Type: "routine"},
		{Key: "sectionExercises", Cardinality: serializer.HasMany, Type: "sectionExercise"},
	},
}

func newSerializer() *serializer.Serializer {
	return serializer.New(nil, sectionSchema)
}

func TestSerializeCoercesBelongsToKey(t *testing.T) {
	t.Parallel()

	got, err := newSerializer().Serialize(serializer.Snapshot{
		Kind:       "section",
		ID:         "5",
		Attributes: map[string]any{"name": "Warm up"},
		Relationships: map[string]serializer.Relationship{
			"routine":          {ID: "42"},
			"sectionExercises": {IDs: []string{"3", "9"}},
		},
	})
	require.NoError(t, err)

	want := map[string]any{
		"name":             "Warm up",
		"routine":          int64(42),
		"sectionExercises": []int64{3, 9},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("serialized section mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeLeavesNullRelationshipNull(t *testing.T) {
	t.Parallel()

	got, err := newSerializer().Serialize(serializer.Snapshot{
		Kind:       "section",
		Attributes: map[string]any{"name": "Loose"},
	})
	require.NoError(t, err)
	assert.Contains(t, got, "routine")
	assert.Nil(t, got["routine"])
	assert.Equal(t, []int64{}, got["sectionExercises"])

	body, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"routine":null`)
	assert.NotContains(t, string(body), "NaN")
}

func TestSerializeRejectsNonNumericKey(t *testing.T) {
	t.Parallel()

	_, err := newSerializer().Serialize(serializer.Snapshot{
		Kind: "section",
		Relationships: map[string]serializer.Relationship{
			"routine": {ID: "abc"},
		},
	})
	require.ErrorIs(t, err, serializer.ErrKeyCoercion)
	assert.Contains(t, err.Error(), "section.routine")
}

func TestSerializeHonorsKeyForRelationship(t *testing.T) {
	t.Parallel()

	s := newSerializer()
	s.KeyForRelationship = func(key string, c serializer.Cardinality) string {
		if c == serializer.BelongsTo {
			return key + "_id"
		}
		return key + "_ids"
	}
	got, err := s.Serialize(serializer.Snapshot{
		Kind: "section",
		Relationships: map[string]serializer.Relationship{
			"routine":          {ID: "7"},
			"sectionExercises": {IDs: []string{"1"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got["routine_id"])
	assert.Equal(t, []int64{1}, got["sectionExercises_ids"])
	assert.NotContains(t, got, "routine")
}

func TestSerializeIntoHashUsesPayloadKey(t *testing.T) {
	t.Parallel()

	s := serializer.New(nil, serializer.Schema{Kind: "sectionExercise", Attributes: []string{"order"}})
	hash := map[string]any{}
	require.NoError(t, s.SerializeIntoHash(hash, serializer.Snapshot{
		Kind:       "sectionExercise",
		Attributes: map[string]any{"order": 2},
	}))
	assert.Equal(t, map[string]any{"sectionExercise": map[string]any{"order": 2}}, hash)

	_, err := s.Serialize(serializer.Snapshot{Kind: "unknown"})
	assert.ErrorIs(t, err, serializer.ErrUnknownKind)
}

func TestCoerceKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want any
		err  bool
	}{
		{name: "numeric string", in: "42", want: int64(42)},
		{name: "padded string", in: " 8 ", want: int64(8)},
		{name: "nil", in: nil, want: nil},
		{name: "empty string", in: "", want: nil},
		{name: "already int", in: 5, want: int64(5)},
		{name: "json number", in: json.Number("12"), want: int64(12)},
		{name: "whole float", in: float64(3), want: int64(3)},
		{name: "fractional float", in: 3.5, err: true},
		{name: "word", in: "forty", err: true},
		{name: "string list", in: []string{"1", "2"}, want: []int64{1, 2}},
		{name: "mixed list", in: []any{"1", float64(2)}, want: []int64{1, 2}},
		{name: "list with blank", in: []string{"1", ""}, err: true},
		{name: "bool", in: true, err: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := serializer.CoerceKey(tc.in)
			if tc.err {
				require.ErrorIs(t, err, serializer.ErrKeyCoercion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeSingleAndCollection(t *testing.T) {
	t.Parallel()

	s := newSerializer()
	var single map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"section":{"id":5,"name":"Main","routine":42,"sectionExercises":[1,"2"]}}`))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&single))

	snaps, err := s.Normalize("section", single)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "5", snaps[0].ID)
	assert.Equal(t, "Main", snaps[0].Attributes["name"])
	assert.Equal(t, "42", snaps[0].Relationships["routine"].ID)
	assert.Equal(t, []string{"1", "2"}, snaps[0].Relationships["sectionExercises"].IDs)

	var many map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"sections":[{"id":1,"name":"A","routine":null},{"id":2,"name":"B","routine":3}]}`), &many))
	snaps, err = s.Normalize("section", many)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "", snaps[0].Relationships["routine"].ID)
	assert.Equal(t, "3", snaps[1].Relationships["routine"].ID)

	_, err = s.Normalize("section", map[string]any{"routine": map[string]any{}})
	assert.ErrorIs(t, err, serializer.ErrBadPayload)
}

func TestPluralKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exercises", serializer.PluralKey("exercise"))
	assert.Equal(t, "sectionExercises", serializer.PluralKey("sectionExercise"))
	assert.Equal(t, "routines", serializer.PluralKey("routine"))
	assert.Equal(t, "categories", serializer.PluralKey("category"))
}
