package model

type RoutineAttrs struct {
	Name      string
	IsPublic  bool
	Copyright string
}

type Routine struct {
	Record[RoutineAttrs]
	Sections []*Section
}

func NewRoutine(attrs RoutineAttrs) *Routine {
	r := &Routine{}
	r.init(attrs)
	return r
}

func (r *Routine) Kind() string { return KindRoutine }

// AttachSection adds s to the routine's sections once. The routine must
// already be persisted.
func (r *Routine) AttachSection(s *Section) error {
	if r.IsNew() {
		return ErrParentUnsaved
	}
	s.Routine = r
	for _, existing := range r.Sections {
		if existing == s {
			return nil
		}
	}
	r.Sections = append(r.Sections, s)
	return nil
}

func (r *Routine) DetachSection(s *Section) {
	for i, existing := range r.Sections {
		if existing == s {
			r.Sections = append(r.Sections[:i], r.Sections[i+1:]...)
			break
		}
	}
	if s.Routine == r {
		s.Routine = nil
	}
}

func (r *Routine) SectionIDs() []int64 {
	ids := make([]int64, 0, len(r.Sections))
	for _, s := range r.Sections {
		if id := s.Key(); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
