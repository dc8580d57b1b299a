package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/handlers"
	"example.com/storebunk/services/pos/models"
	"example.com/storebunk/services/pos/utils"
)

// openShift opens a shift on a terminal
func (s *Server) openShift(c *gin.Context) {
	var cmd handlers.OpenShiftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cmd.ShiftID == "" {
		cmd.ShiftID = uuid.New().String()
	}

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.shiftHandler.HandleOpenShift(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"shift_id": cmd.ShiftID})
}

// getShift returns the shift read model by ID
func (s *Server) getShift(c *gin.Context) {
	id := c.Param("id")

	var shift models.Shift
	if err := s.db.Where("shift_id = ?", id).First(&shift).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "shift not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shift)
}

// recordCashDrop records a cash removal on an open shift
func (s *Server) recordCashDrop(c *gin.Context) {
	var cmd handlers.RecordCashDropCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.ShiftID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.shiftHandler.HandleRecordCashDrop(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cash drop recorded"})
}

// closeShift reconciles and closes a shift
func (s *Server) closeShift(c *gin.Context) {
	var cmd handlers.CloseShiftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.ShiftID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.shiftHandler.HandleCloseShift(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "shift closed"})
}

// forceCloseShift closes a shift on supervisor authority
func (s *Server) forceCloseShift(c *gin.Context) {
	var cmd handlers.ForceCloseShiftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.ShiftID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.shiftHandler.HandleForceCloseShift(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "shift force closed"})
}
