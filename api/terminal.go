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

// registerTerminal registers a new terminal
func (s *Server) registerTerminal(c *gin.Context) {
	var cmd handlers.RegisterTerminalCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cmd.TerminalID == "" {
		cmd.TerminalID = uuid.New().String()
	}

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.terminalHandler.HandleRegisterTerminal(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"terminal_id": cmd.TerminalID})
}

// getTerminal returns the terminal read model by ID
func (s *Server) getTerminal(c *gin.Context) {
	id := c.Param("id")

	var terminal models.Terminal
	if err := s.db.Where("terminal_id = ?", id).First(&terminal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "terminal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, terminal)
}

// activateTerminal activates a terminal
func (s *Server) activateTerminal(c *gin.Context) {
	cmd := handlers.ActivateTerminalCommand{TerminalID: c.Param("id")}

	if err := s.terminalHandler.HandleActivateTerminal(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "terminal activated"})
}

// disableTerminal disables a terminal
func (s *Server) disableTerminal(c *gin.Context) {
	cmd := handlers.DisableTerminalCommand{TerminalID: c.Param("id")}

	if err := s.terminalHandler.HandleDisableTerminal(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "terminal disabled"})
}

// setTerminalMaintenance puts a terminal into maintenance
func (s *Server) setTerminalMaintenance(c *gin.Context) {
	cmd := handlers.SetTerminalMaintenanceCommand{TerminalID: c.Param("id")}

	if err := s.terminalHandler.HandleSetTerminalMaintenance(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "terminal set to maintenance"})
}

// decommissionTerminal decommissions a terminal
func (s *Server) decommissionTerminal(c *gin.Context) {
	var cmd handlers.DecommissionTerminalCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.TerminalID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.terminalHandler.HandleDecommissionTerminal(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "terminal decommissioned"})
}

// recommissionTerminal recommissions a decommissioned terminal
func (s *Server) recommissionTerminal(c *gin.Context) {
	var cmd handlers.RecommissionTerminalCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.TerminalID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.terminalHandler.HandleRecommissionTerminal(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "terminal recommissioned"})
}

// renameTerminal renames a terminal
func (s *Server) renameTerminal(c *gin.Context) {
	var cmd handlers.RenameTerminalCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.TerminalID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.terminalHandler.HandleRenameTerminal(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "terminal renamed"})
}

// reassignTerminal reassigns a terminal to another branch
func (s *Server) reassignTerminal(c *gin.Context) {
	var cmd handlers.ReassignTerminalCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.TerminalID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.terminalHandler.HandleReassignTerminal(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "terminal reassigned"})
}
