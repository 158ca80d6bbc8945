package model

type SectionAttrs struct {
	Name string
}

type Section struct {
	Record[SectionAttrs]
	Routine          *Routine
	SectionExercises []*SectionExercise
}

func NewSection(attrs SectionAttrs) *Section {
	s := &Section{}
	s.init(attrs)
	return s
}

func (s *Section) Kind() string { return KindSection }

// AttachSectionExercise appends se to the section's bundles once. The section
// must already be persisted.
func (s *Section) AttachSectionExercise(se *SectionExercise) error {
	if s.IsNew() {
		return ErrParentUnsaved
	}
	se.Section = s
	for _, existing := range s.SectionExercises {
		if existing == se {
			return nil
		}
	}
	s.SectionExercises = append(s.SectionExercises, se)
	return nil
}

func (s *Section) DetachSectionExercise(se *SectionExercise) {
	for i, existing := range s.SectionExercises {
		if existing == se {
			s.SectionExercises = append(s.SectionExercises[:i], s.SectionExercises[i+1:]...)
			break
		}
	}
	if se.Section == s {
		se.Section = nil
	}
}

func (s *Section) Exercises() []*Exercise {
	seen := make(map[*Exercise]bool)
	out := make([]*Exercise, 0)
	for _, se := range s.SectionExercises {
		for _, e := range se.Exercises {
			if seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

func (s *Section) SectionExerciseIDs() []int64 {
	ids := make([]int64, 0, len(s.SectionExercises))
	for _, se := range s.SectionExercises {
		if id := se.Key(); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
