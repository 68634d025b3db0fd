package http

import (
	"net/http"

	"github.com/mauv0809/super-palm-tree/internal/admin"
	"github.com/mauv0809/super-palm-tree/internal/atlas"
	"github.com/mauv0809/super-palm-tree/internal/config"
	"github.com/mauv0809/super-palm-tree/internal/identity"
	"github.com/mauv0809/super-palm-tree/internal/leaderboard"
	"github.com/mauv0809/super-palm-tree/internal/metrics"
	"github.com/mauv0809/super-palm-tree/internal/token"
)

func NewServer(
	atlasStore atlas.AtlasStore,
	boardStore leaderboard.LeaderboardStore,
	adminStore admin.AdminStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	codec *token.Codec,
	resolver *identity.Resolver,
) *Server {
	server := &Server{
		Atlas:          atlasStore,
		Boards:         boardStore,
		Admins:         adminStore,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Codec:          codec,
		Resolver:       resolver,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), logMiddleware))

	// Token issuance is the only unauthenticated API route.
	s.Router.Handle("POST /api/v2/auth/player", Chain(s.IssuePlayerTokenHandler(), logMiddleware))

	// Player API (bearer token).
	player := func(h http.Handler) http.Handler { return Chain(h, logMiddleware, s.playerAuth) }
	s.Router.Handle("GET /api/v2/players/me", player(s.MeHandler()))
	s.Router.Handle("GET /api/v2/maps", player(s.ListMapsHandler()))
	s.Router.Handle("GET /api/v2/maps/{mapId}", player(s.GetMapHandler()))
	s.Router.Handle("POST /api/v2/maps/{mapId}/join", player(s.JoinMapHandler()))
	s.Router.Handle("GET /api/v2/maps/{mapId}/players", player(s.ListMembersHandler()))
	s.Router.Handle("GET /api/v2/maps/{mapId}/archives", player(s.ListArchivesHandler()))
	s.Router.Handle("POST /api/v2/maps/{mapId}/archives", player(s.CreateArchiveHandler()))
	s.Router.Handle("GET /api/v2/maps/{mapId}/dimensions", player(s.ListDimensionsHandler()))
	s.Router.Handle("GET /api/v2/maps/{mapId}/leaderboard/{dimensionId}", player(s.LeaderboardHandler()))
	s.Router.Handle("GET /api/v2/maps/{mapId}/leaderboard/{dimensionId}/me", player(s.MyRankHandler()))
	s.Router.Handle("GET /api/v2/archives/{archiveId}", player(s.GetArchiveHandler()))
	s.Router.Handle("PUT /api/v2/archives/{archiveId}", player(s.UpdateArchiveHandler()))
	s.Router.Handle("DELETE /api/v2/archives/{archiveId}", player(s.DeleteArchiveHandler()))
	s.Router.Handle("POST /api/v2/archives/{archiveId}/scores", player(s.SubmitScoresHandler()))

	// Admin API (session cookie).
	adminOnly := func(h http.Handler) http.Handler { return Chain(h, logMiddleware, s.adminAuth) }
	s.Router.Handle("POST /api/admin/login", Chain(s.AdminLoginHandler(), logMiddleware))
	s.Router.Handle("POST /api/admin/logout", Chain(s.AdminLogoutHandler(), logMiddleware))
	s.Router.Handle("PUT /api/admin/credentials", adminOnly(s.UpdateCredentialsHandler()))
	s.Router.Handle("GET /api/admin/summary", adminOnly(s.AdminSummaryHandler()))
	s.Router.Handle("POST /api/v2/maps", adminOnly(s.CreateMapHandler()))
	s.Router.Handle("PUT /api/v2/maps/{mapId}", adminOnly(s.UpdateMapHandler()))
	s.Router.Handle("DELETE /api/v2/maps/{mapId}", adminOnly(s.DeleteMapHandler()))
	s.Router.Handle("POST /api/v2/maps/{mapId}/dimensions", adminOnly(s.CreateDimensionHandler()))
	s.Router.Handle("DELETE /api/v2/maps/{mapId}/dimensions/{dimensionId}", adminOnly(s.DeleteDimensionHandler()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
