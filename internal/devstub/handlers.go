package devstub

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/internal/payment"
	"github.com/tradeforge/accountsync/pkg/validation"
)

// UpdateProfileRequest represents the JSON body for a profile update
type UpdateProfileRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// CreateChargeRequest represents the JSON body for a charge initiation
type CreateChargeRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// profileSnapshot builds the ProfileStatus view of the demo account.
func (s *Server) profileSnapshot() (*models.ProfileStatus, error) {
	account, err := s.store.Account(DemoUsername)
	if err != nil {
		return nil, err
	}

	emailSet := account.Email != "" && !validation.IsPlaceholderEmail(account.Email, s.cfg.PlaceholderEmailDomain)
	phoneSet := validation.ValidatePhone(account.PhoneNumber, s.cfg.MobilePrefix) == nil

	return &models.ProfileStatus{
		Username:    account.Username,
		Email:       account.Email,
		PhoneNumber: account.PhoneNumber,
		Complete:    emailSet || phoneSet,
		Admin:       account.Admin,
	}, nil
}

// profileStatus is a handler for the /api/user/profile-status endpoint.
func (s *Server) profileStatus(c *gin.Context) {
	status, err := s.profileSnapshot()
	if err != nil {
		s.logger.Error("Failed to build profile status ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load the profile",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": status})
}

// reauth refreshes the session snapshot after a profile change.
func (s *Server) reauth(c *gin.Context) {
	s.profileStatus(c)
}

// updateProfile is a handler for the /api/user/update-profile endpoint.
// It re-runs the contact validation server-side and answers with
// field-level errors so the client's rejection path can be exercised.
func (s *Server) updateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	if req.Email == "" && req.PhoneNumber == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "At least one contact field is required",
		})
		return
	}

	fieldErrors := gin.H{}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			fieldErrors["email"] = "The email address is not valid"
		}
	}
	if req.PhoneNumber != "" {
		if err := validation.ValidatePhone(req.PhoneNumber, s.cfg.MobilePrefix); err != nil {
			fieldErrors["phone_number"] = "The mobile number is not valid"
		}
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  fieldErrors,
		})
		return
	}

	if err := s.store.UpdateContact(DemoUsername, req.Email, req.PhoneNumber); err != nil {
		s.logger.Error("Failed to update contact fields ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update the profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// balance is a handler for the /api/payment/balance endpoint.
func (s *Server) balance(c *gin.Context) {
	account, err := s.store.Account(DemoUsername)
	if err != nil {
		s.logger.Error("Failed to get account ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load the balance",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": account.Balance})
}

// createCharge is a handler for the /api/payment/create-charge endpoint.
// It records a pending transaction and hands out the simulated processor's
// checkout URL.
func (s *Server) createCharge(c *gin.Context) {
	var req CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	if !s.isDenomination(req.Amount) {
		c.JSON(http.StatusOK, models.ChargeResult{
			Status:       models.ChargeStatusError,
			ErrorMessage: fmt.Sprintf("Unsupported top-up amount: %d", req.Amount),
		})
		return
	}

	tx, err := s.store.CreateCharge(DemoUsername, req.Amount)
	if err != nil {
		s.logger.Error("Failed to create charge ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create the charge",
		})
		return
	}

	c.JSON(http.StatusOK, models.ChargeResult{
		Status:     models.ChargeStatusRedirect,
		PaymentURL: fmt.Sprintf("%s/pay/checkout?%s=%s", s.cfg.APIBaseURL, payment.ParamTransactionID, tx.ID),
	})
}

// checkout simulates the external processor: it settles the transaction and
// redirects the whole page back to the console with the outcome encoded in
// the query string. The `outcome` parameter (success, cancel, fail) steers
// the simulation; verification failures carry a detail text.
func (s *Server) checkout(c *gin.Context) {
	txID := c.Query(payment.ParamTransactionID)
	if txID == "" {
		s.redirectBack(c, url.Values{payment.ParamError: {payment.CodeMissingParams}})
		return
	}

	tx, err := s.store.Charge(txID)
	if err != nil {
		s.logger.Debug("Unknown charge transaction ", "id ", txID)
		s.redirectBack(c, url.Values{payment.ParamError: {payment.CodeTransactionNotFound}})
		return
	}
	if tx.Status != models.ChargePending {
		s.redirectBack(c, url.Values{payment.ParamError: {payment.CodeAlreadyProcessed}})
		return
	}

	switch c.DefaultQuery("outcome", "success") {
	case "cancel":
		if err := s.store.SetChargeStatus(tx.ID, models.ChargeCancelled); err != nil {
			s.logger.Error("Failed to cancel charge ", "error ", err)
		}
		s.redirectBack(c, url.Values{payment.ParamError: {payment.CodeCancelled}})
	case "fail":
		if err := s.store.SetChargeStatus(tx.ID, models.ChargeFailed); err != nil {
			s.logger.Error("Failed to fail charge ", "error ", err)
		}
		detail := c.DefaultQuery("reason", "signature mismatch")
		s.redirectBack(c, url.Values{
			payment.ParamError:       {payment.CodeVerifyFailed},
			payment.ParamErrorDetail: {detail},
		})
	default:
		if err := s.store.Credit(tx.Username, tx.Amount); err != nil {
			s.logger.Error("Failed to credit account ", "error ", err)
			s.redirectBack(c, url.Values{
				payment.ParamError:       {payment.CodeVerifyFailed},
				payment.ParamErrorDetail: {"could not credit the wallet"},
			})
			return
		}
		if err := s.store.SetChargeStatus(tx.ID, models.ChargeCompleted); err != nil {
			s.logger.Error("Failed to complete charge ", "error ", err)
		}
		s.redirectBack(c, url.Values{
			payment.ParamSuccess:       {"1"},
			payment.ParamTransactionID: {tx.ID},
		})
	}
}

// redirectBack sends the browser to the configured return URL with the
// outcome parameters merged into its query string.
func (s *Server) redirectBack(c *gin.Context, params url.Values) {
	target, err := url.Parse(s.cfg.PaymentReturnURL)
	if err != nil {
		s.logger.Error("Invalid payment return URL ", "error ", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	query := target.Query()
	for key, list := range params {
		for _, value := range list {
			query.Set(key, value)
		}
	}
	target.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, target.String())
}

// getSettings is a handler for GET /api/admin/settings.
func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.store.Settings()
	if err != nil {
		s.logger.Error("Failed to get settings ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load the settings",
		})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// updateSettings is a handler for PUT /api/admin/settings. The request is a
// partial update; the full merged aggregate is returned.
func (s *Server) updateSettings(c *gin.Context) {
	var update models.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	settings, err := s.store.ApplySettingsUpdate(&update)
	if err != nil {
		s.logger.Error("Failed to apply settings update ", "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update the settings",
		})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// clearCache is a handler for POST /api/admin/clear-cache.
func (s *Server) clearCache(c *gin.Context) {
	s.cacheMu.Lock()
	deleted := s.cacheEntries
	s.cacheEntries = 0
	s.cacheMu.Unlock()

	c.JSON(http.StatusOK, models.ClearCacheResult{DeletedCount: deleted})
}

func (s *Server) isDenomination(amount int64) bool {
	for _, d := range s.cfg.Denominations {
		if d == amount {
			return true
		}
	}
	return false
}
