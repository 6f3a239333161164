package routes

import (
	"github.com/go-chi/chi/v5"

	"donatello/backend/internal/api"
	"donatello/backend/internal/config"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers. Auth endpoints
// are public; everything else sits behind the session middleware.
func RegisterAPIRoutes(r chi.Router, cfg *config.Config, deps *api.Dependencies, metricsReg *metrics.MetricsRegistry) {
	svcs := deps.Services

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))

		// Public: account lifecycle entry points
		v1.Group(func(public chi.Router) {
			public.Post("/auth/register", api.RegisterUser(svcs.Auth))
			public.Post("/auth/login", api.Login(svcs.Auth))
			public.Get("/auth/confirm-email", api.ConfirmEmail(svcs.Auth))
			public.Post("/auth/resend-confirmation", api.ResendConfirmation(svcs.Auth))
			public.Post("/auth/forgot-password", api.ForgotPassword(svcs.Auth))
			public.Post("/auth/change-password", api.ChangePassword(svcs.Auth))
		})

		// Authenticated surface
		v1.Group(func(private chi.Router) {
			private.Use(middleware.AuthMiddleware(cfg.Session.Secret))

			private.Get("/users/me", api.GetMe(svcs.User))
			private.Patch("/users/me", api.UpdateMe(svcs.User))
			private.Delete("/users/me", api.DeleteMe(svcs.User))
			private.Get("/users", api.ListUsers(svcs.User))
			private.Get("/users/{user_id}", api.GetUser(svcs.User))

			private.Post("/charities", api.CreateCharity(svcs.Charity))
			private.Get("/charities", api.ListCharities(svcs.Charity))
			private.Get("/charities/{charity_id}", api.GetCharity(svcs.Charity))
			private.Patch("/charities/{charity_id}", api.UpdateCharity(svcs.Charity))
			private.Delete("/charities/{charity_id}", api.DeleteCharity(svcs.Charity))

			private.Get("/charities/{charity_id}/employees", api.ListEmployees(svcs.Employee))
			private.Post("/charities/{charity_id}/employees", api.AddEmployee(svcs.Employee))
			private.Delete("/charities/{charity_id}/employees/{user_id}", api.RemoveEmployee(svcs.Employee))
			private.Post("/charities/{charity_id}/employees/{user_id}/roles", api.AssignRole(svcs.Employee))
			private.Delete("/charities/{charity_id}/employees/{user_id}/roles/{role}", api.RevokeRole(svcs.Employee))

			private.Get("/charities/{charity_id}/fundraisers", api.ListCharityFundraisers(svcs.Fundraise))
			private.Post("/fundraisers", api.CreateFundraise(svcs.Fundraise))
			private.Get("/fundraisers/{fundraise_id}", api.GetFundraise(svcs.Fundraise))
			private.Patch("/fundraisers/{fundraise_id}", api.UpdateFundraise(svcs.Fundraise))
			private.Delete("/fundraisers/{fundraise_id}", api.DeleteFundraise(svcs.Fundraise))
			private.Post("/fundraisers/{fundraise_id}/status", api.AdvanceFundraiseStatus(svcs.Fundraise))
			private.Get("/fundraisers/{fundraise_id}/status/history", api.GetFundraiseStatusHistory(svcs.Fundraise))

			private.Get("/balance", api.GetBalance(svcs.Donation))
			private.Post("/balance/refill", api.RefillBalance(svcs.Donation))
			private.Get("/balance/refills", api.ListRefills(svcs.Donation))
			private.Post("/donations", api.Donate(svcs.Donation))
			private.Get("/donations", api.ListDonations(svcs.Donation))

			private.Get("/ops/balance-integrity", api.BalanceIntegrityReport(svcs.Donation))
		})
	})
}
