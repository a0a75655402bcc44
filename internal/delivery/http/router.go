package http

import (
	"context"
	"log/slog"
	"net/http"

	"clubconn/internal/delivery/http/controllers"
	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/delivery/http/middleware"
	"clubconn/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the controllers the router dispatches to.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Club         *controllers.ClubController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Certificate  *controllers.CertificateController
	Badge        *controllers.BadgeController
	Sponsorship  *controllers.SponsorshipController
	Content      *controllers.ContentController
}

// RouterOptions configures the middleware shared by all routes.
type RouterOptions struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
	// HealthCheck is called by GET /healthz; nil reports healthy.
	HealthCheck func(ctx context.Context) error
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(opts.Verifier, opts.Logger)
	optionalAuth := middleware.OptionalAuth(opts.Verifier)
	rateLimit := middleware.RateLimit(opts.Limiter)
	authed := func(h http.HandlerFunc) http.HandlerFunc { return middleware.Chain(h, requireAuth) }
	limited := func(h http.HandlerFunc) http.HandlerFunc { return middleware.Chain(h, optionalAuth, rateLimit) }

	// Auth
	mux.HandleFunc("POST /auth/signup", limited(c.Auth.SignUp))
	mux.HandleFunc("POST /auth/login", limited(c.Auth.Login))
	mux.HandleFunc("POST /auth/login-code", limited(c.Auth.RequestLoginCode))
	mux.HandleFunc("POST /auth/login-code/verify", limited(c.Auth.VerifyLoginCode))

	// Current user
	mux.HandleFunc("GET /users/me", authed(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", authed(c.User.UpdateMe))
	mux.HandleFunc("GET /users/me/clubs", authed(c.Club.ListMyClubs))
	mux.HandleFunc("GET /users/me/registrations", authed(c.Registration.ListMyRegistrations))
	mux.HandleFunc("GET /users/me/certificates", authed(c.Certificate.ListMyCertificates))
	mux.HandleFunc("GET /users/me/badges", authed(c.Badge.GetMyBadges))
	mux.HandleFunc("GET /users/me/sponsors", authed(c.Sponsorship.ListMySponsors))

	// Admin
	mux.HandleFunc("POST /admin/roles", middleware.Chain(c.User.GrantRole, requireAuth, middleware.RequireRole(domain.RoleAdmin)))

	// Clubs
	mux.HandleFunc("GET /clubs", c.Club.ListClubs)
	mux.HandleFunc("POST /clubs", authed(c.Club.CreateClub))
	mux.HandleFunc("GET /clubs/{clubID}", c.Club.GetClub)
	mux.HandleFunc("PATCH /clubs/{clubID}", authed(c.Club.UpdateClub))
	mux.HandleFunc("DELETE /clubs/{clubID}", authed(c.Club.DeleteClub))
	mux.HandleFunc("GET /clubs/{clubID}/members", c.Club.ListMembers)
	mux.HandleFunc("POST /clubs/{clubID}/members", authed(c.Club.JoinClub))
	mux.HandleFunc("DELETE /clubs/{clubID}/members/me", authed(c.Club.LeaveClub))
	mux.HandleFunc("POST /clubs/{clubID}/members/{userID}/promote", authed(c.Club.PromoteMember))
	mux.HandleFunc("GET /clubs/{clubID}/events", c.Event.ListClubEvents)
	mux.HandleFunc("POST /clubs/{clubID}/events", authed(c.Event.CreateEvent))
	mux.HandleFunc("POST /clubs/{clubID}/packages", authed(c.Sponsorship.CreatePackage))
	mux.HandleFunc("GET /clubs/{clubID}/sponsorships", authed(c.Sponsorship.ListClubSponsorships))
	mux.HandleFunc("GET /clubs/{clubID}/sponsorships/active", c.Sponsorship.ListActiveSponsorships)

	// Events and forms
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", authed(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", authed(c.Event.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/forms/{kind}", authed(c.Registration.SubmitForm))
	mux.HandleFunc("DELETE /events/{eventID}/forms/{kind}", authed(c.Registration.CancelForm))
	mux.HandleFunc("GET /events/{eventID}/registrations", authed(c.Registration.ListEventRegistrations))
	mux.HandleFunc("POST /events/{eventID}/attendance", authed(c.Registration.MarkAttendance))
	mux.HandleFunc("POST /events/{eventID}/certificates", authed(c.Certificate.IssueCertificate))
	mux.HandleFunc("POST /events/{eventID}/certificates/bulk", authed(c.Certificate.IssueForAttendees))

	// Certificates
	mux.HandleFunc("GET /certificates/{code}", c.Certificate.VerifyCertificate)
	mux.HandleFunc("GET /certificates/{code}/render", c.Certificate.RenderCertificate)

	// Badges
	mux.HandleFunc("GET /badges", c.Badge.ListBadges)
	mux.HandleFunc("GET /leaderboard", c.Badge.Leaderboard)

	// Sponsorship marketplace
	mux.HandleFunc("POST /sponsors", authed(c.Sponsorship.CreateSponsor))
	mux.HandleFunc("GET /sponsors/{sponsorID}", c.Sponsorship.GetSponsor)
	mux.HandleFunc("PATCH /sponsors/{sponsorID}", authed(c.Sponsorship.UpdateSponsor))
	mux.HandleFunc("GET /packages", c.Sponsorship.ListPackages)
	mux.HandleFunc("DELETE /packages/{packageID}", authed(c.Sponsorship.DeletePackage))
	mux.HandleFunc("POST /sponsorships", authed(c.Sponsorship.Apply))
	mux.HandleFunc("POST /sponsorships/{sponsorshipID}/decision", authed(c.Sponsorship.Decide))
	mux.HandleFunc("POST /sponsorships/{sponsorshipID}/impressions", limited(c.Sponsorship.RecordImpression))
	mux.HandleFunc("POST /sponsorships/{sponsorshipID}/clicks", limited(c.Sponsorship.RecordClick))
	mux.HandleFunc("GET /sponsorships/{sponsorshipID}/stats", c.Sponsorship.GetStats)

	// Static content
	mux.HandleFunc("GET /content/faq", c.Content.FAQ)
	mux.HandleFunc("GET /content/footer", c.Content.Footer)

	mux.HandleFunc("GET /healthz", healthz(opts.HealthCheck, opts.Logger))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(opts.Logger, middleware.CORS(opts.AllowedOrigins, mux))
}

func healthz(check func(context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "health check failed", "err", err)
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "unhealthy")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
