package devstub

// routes sets up the routes for the local backend server.
func (s *Server) routes() {
	s.router.GET("/api/user/profile-status", s.profileStatus)
	s.router.POST("/api/user/update-profile", s.updateProfile)
	s.router.POST("/api/auth/reauth", s.reauth)

	s.router.GET("/api/payment/balance", s.balance)
	s.router.POST("/api/payment/create-charge", s.createCharge)
	// Simulated external processor checkout; redirects back to the page.
	s.router.GET("/pay/checkout", s.checkout)

	s.router.GET("/api/admin/settings", s.getSettings)
	s.router.PUT("/api/admin/settings", s.updateSettings)
	s.router.POST("/api/admin/clear-cache", s.clearCache)
}
