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

type Server struct {
	Atlas          atlas.AtlasStore
	Boards         leaderboard.LeaderboardStore
	Admins         admin.AdminStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Codec          *token.Codec
	Resolver       *identity.Resolver
	Router         *http.ServeMux
}
