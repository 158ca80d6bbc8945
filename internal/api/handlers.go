package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prikhi/bodyweight-client/internal/service"
)

func listExercises(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := service.ListExercises(db)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]exerciseJSON, 0, len(items))
		for _, e := range items {
			out = append(out, exerciseOut(e))
		}
		c.JSON(http.StatusOK, gin.H{"exercises": out})
	}
}

func createExercise(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req exerciseEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id, err := service.CreateExercise(db, req.Exercise.input())
		if err != nil {
			writeError(c, err)
			return
		}
		respondExercise(c, db, id, http.StatusCreated)
	}
}

func showExercise(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := pathID(c); ok {
			respondExercise(c, db, id, http.StatusOK)
		}
	}
}

func updateExercise(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req exerciseEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := service.UpdateExercise(db, service.UpdateExerciseInput{ID: id, ExerciseInput: req.Exercise.input()}); err != nil {
			writeError(c, err)
			return
		}
		respondExercise(c, db, id, http.StatusOK)
	}
}

func deleteExercise(db *sql.DB) gin.HandlerFunc {
	return deleteWith(service.DeleteExercise, db)
}

func respondExercise(c *gin.Context, db *sql.DB, id int64, status int) {
	e, err := service.GetExercise(db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, gin.H{"exercise": exerciseOut(e)})
}

func listRoutines(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := service.ListRoutines(db)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]routineJSON, 0, len(items))
		for _, r := range items {
			out = append(out, routineOut(r))
		}
		c.JSON(http.StatusOK, gin.H{"routines": out})
	}
}

func createRoutine(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req routineEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id, err := service.CreateRoutine(db, req.Routine.input())
		if err != nil {
			writeError(c, err)
			return
		}
		respondRoutine(c, db, id, http.StatusCreated)
	}
}

func showRoutine(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := pathID(c); ok {
			respondRoutine(c, db, id, http.StatusOK)
		}
	}
}

func updateRoutine(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req routineEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := service.UpdateRoutine(db, service.UpdateRoutineInput{ID: id, RoutineInput: req.Routine.input()}); err != nil {
			writeError(c, err)
			return
		}
		respondRoutine(c, db, id, http.StatusOK)
	}
}

func deleteRoutine(db *sql.DB) gin.HandlerFunc {
	return deleteWith(service.DeleteRoutine, db)
}

func respondRoutine(c *gin.Context, db *sql.DB, id int64, status int) {
	r, err := service.GetRoutine(db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, gin.H{"routine": routineOut(r)})
}

func listSections(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := service.ListSections(db)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]sectionJSON, 0, len(items))
		for _, s := range items {
			out = append(out, sectionOut(s))
		}
		c.JSON(http.StatusOK, gin.H{"sections": out})
	}
}

func createSection(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sectionEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id, err := service.CreateSection(db, req.Section.input())
		if err != nil {
			writeError(c, err)
			return
		}
		respondSection(c, db, id, http.StatusCreated)
	}
}

func showSection(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := pathID(c); ok {
			respondSection(c, db, id, http.StatusOK)
		}
	}
}

func updateSection(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req sectionEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := service.UpdateSection(db, service.UpdateSectionInput{ID: id, SectionInput: req.Section.input()}); err != nil {
			writeError(c, err)
			return
		}
		respondSection(c, db, id, http.StatusOK)
	}
}

func deleteSection(db *sql.DB) gin.HandlerFunc {
	return deleteWith(service.DeleteSection, db)
}

func respondSection(c *gin.Context, db *sql.DB, id int64, status int) {
	s, err := service.GetSection(db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, gin.H{"section": sectionOut(s)})
}

func listSectionExercises(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := service.ListSectionExercises(db)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]sectionExerciseJSON, 0, len(items))
		for _, se := range items {
			out = append(out, sectionExerciseOut(se))
		}
		c.JSON(http.StatusOK, gin.H{"sectionExercises": out})
	}
}

func createSectionExercise(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sectionExerciseEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id, err := service.CreateSectionExercise(db, req.SectionExercise.input())
		if err != nil {
			writeError(c, err)
			return
		}
		respondSectionExercise(c, db, id, http.StatusCreated)
	}
}

func showSectionExercise(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := pathID(c); ok {
			respondSectionExercise(c, db, id, http.StatusOK)
		}
	}
}

func updateSectionExercise(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req sectionExerciseEnvelope
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		in := service.UpdateSectionExerciseInput{ID: id, SectionExerciseInput: req.SectionExercise.input()}
		if err := service.UpdateSectionExercise(db, in); err != nil {
			writeError(c, err)
			return
		}
		respondSectionExercise(c, db, id, http.StatusOK)
	}
}

func deleteSectionExercise(db *sql.DB) gin.HandlerFunc {
	return deleteWith(service.DeleteSectionExercise, db)
}

func respondSectionExercise(c *gin.Context, db *sql.DB, id int64, status int) {
	se, err := service.GetSectionExercise(db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, gin.H{"sectionExercise": sectionExerciseOut(se)})
}

func deleteWith(del func(*sql.DB, int64) error, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := del(db, id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
