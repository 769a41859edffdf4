package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
)

type ProgramHandler struct {
	store *artifacts.Store
}

func NewProgramHandler(store *artifacts.Store) *ProgramHandler {
	return &ProgramHandler{store: store}
}

func (h *ProgramHandler) GetAllPrograms(c *gin.Context) {
	if !h.store.CatalogAvailable() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Program catalog is not loaded",
		})
		return
	}

	programs := h.store.Programs()
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Programs fetched",
		"data": gin.H{
			"programs": programs,
			"count":    len(programs),
		},
	})
}
