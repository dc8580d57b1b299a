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

// startSession starts a POS session bound to an open shift
func (s *Server) startSession(c *gin.Context) {
	var cmd handlers.StartSessionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cmd.SessionID == "" {
		cmd.SessionID = uuid.New().String()
	}

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sessionHandler.HandleStartSession(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": cmd.SessionID})
}

// getSession returns the session read model by ID
func (s *Server) getSession(c *gin.Context) {
	id := c.Param("id")

	var session models.PosSession
	if err := s.db.Where("session_id = ?", id).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.SessionOrder
	if err := s.db.Where("session_id = ?", id).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "orders": orders})
}

// startNewOrder starts a new order in the session
func (s *Server) startNewOrder(c *gin.Context) {
	var cmd handlers.StartNewOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.SessionID = c.Param("id")

	if cmd.OrderID == "" {
		cmd.OrderID = uuid.New().String()
	}

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sessionHandler.HandleStartNewOrder(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order_id": cmd.OrderID})
}

// startNewOrderOffline replays an order created while the terminal was offline
func (s *Server) startNewOrderOffline(c *gin.Context) {
	var cmd handlers.StartNewOrderOfflineCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.SessionID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.offlineHandler.HandleStartNewOrderOffline(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order_id": cmd.OrderID})
}

// parkOrder parks the session's active order
func (s *Server) parkOrder(c *gin.Context) {
	cmd := handlers.ParkOrderCommand{SessionID: c.Param("id")}

	if err := s.sessionHandler.HandleParkOrder(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order parked"})
}

// resumeOrder resumes a parked order
func (s *Server) resumeOrder(c *gin.Context) {
	var cmd handlers.ResumeOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.SessionID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sessionHandler.HandleResumeOrder(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order resumed"})
}

// reactivateOrder reactivates an inactive order
func (s *Server) reactivateOrder(c *gin.Context) {
	var cmd handlers.ReactivateOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.SessionID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sessionHandler.HandleReactivateOrder(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order reactivated"})
}

// syncOrderOnline creates the online counterpart of an offline order
func (s *Server) syncOrderOnline(c *gin.Context) {
	var cmd handlers.SyncOrderOnlineCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.SessionID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.offlineHandler.HandleSyncOrderOnline(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order synced"})
}

// initiateCheckout moves the session into checkout
func (s *Server) initiateCheckout(c *gin.Context) {
	cmd := handlers.InitiateCheckoutCommand{SessionID: c.Param("id")}

	if err := s.sessionHandler.HandleInitiateCheckout(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "checkout initiated"})
}

// requestPayment requests a payment for the active order
func (s *Server) requestPayment(c *gin.Context) {
	var cmd handlers.RequestPaymentCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.SessionID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sessionHandler.HandleRequestPayment(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment requested"})
}

// completeOrder completes the active order
func (s *Server) completeOrder(c *gin.Context) {
	cmd := handlers.CompleteOrderCommand{SessionID: c.Param("id")}

	if err := s.sessionHandler.HandleCompleteOrder(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order completed"})
}

// cancelOrder cancels the active order
func (s *Server) cancelOrder(c *gin.Context) {
	var cmd handlers.CancelOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.SessionID = c.Param("id")

	if err := utils.ValidateStruct(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sessionHandler.HandleCancelOrder(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

// endSession ends a session
func (s *Server) endSession(c *gin.Context) {
	cmd := handlers.EndSessionCommand{SessionID: c.Param("id")}

	if err := s.sessionHandler.HandleEndSession(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}
