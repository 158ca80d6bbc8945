package model

type SectionExerciseAttrs struct {
	Order     int
	SetCount  int
	RepCount  int
	RestAfter bool
}

type SectionExercise struct {
	Record[SectionExerciseAttrs]
	Section   *Section
	Exercises []*Exercise
}

func NewSectionExercise(attrs SectionExerciseAttrs) *SectionExercise {
	se := &SectionExercise{}
	se.init(attrs)
	return se
}

func (se *SectionExercise) Kind() string { return KindSectionExercise }

func (se *SectionExercise) AddExercise(e *Exercise) {
	for _, existing := range se.Exercises {
		if existing == e {
			return
		}
	}
	se.Exercises = append(se.Exercises, e)
}

func (se *SectionExercise) RemoveExercise(e *Exercise) {
	for i, existing := range se.Exercises {
		if existing == e {
			se.Exercises = append(se.Exercises[:i], se.Exercises[i+1:]...)
			return
		}
	}
}

func (se *SectionExercise) ExerciseIDs() []int64 {
	ids := make([]int64, 0, len(se.Exercises))
	for _, e := range se.Exercises {
		if id := e.Key(); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
