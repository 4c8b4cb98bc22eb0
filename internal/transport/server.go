package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/roach88/duskfall/internal/engine"
	"github.com/roach88/duskfall/internal/game"
	"github.com/roach88/duskfall/internal/settings"
	"github.com/roach88/duskfall/internal/store"
)

// DefaultHistoryLimit caps /api/history when no limit is given.
const DefaultHistoryLimit = 50

// Server exposes hosted games over HTTP and socket.io.
type Server struct {
	games *engine.Manager
	hub   *Hub
	store *store.Store
	seats *seatTokens
	cors  string
}

// New creates a server. hub must be the Outbox the manager was built with.
// st may be nil, in which case the history and stats routes are not
// registered.
func New(games *engine.Manager, hub *Hub, st *store.Store, corsOrigin string) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Server{games: games, hub: hub, store: st, seats: newSeatTokens(), cors: corsOrigin}
}

// Router builds the HTTP routes. Call Mount on the result to add socket.io.
func (srv *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "games": srv.games.Len(), "time": time.Now().UTC()})
	})

	api := r.Group("/api")
	api.GET("/catalog", catalog)
	api.POST("/games", srv.createGame)
	api.GET("/games", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"games": srv.games.List()})
	})
	api.GET("/games/:id", srv.gameStatus)

	if srv.store != nil {
		api.GET("/history", srv.history)
		api.GET("/history/:id", srv.historyGame)
		api.GET("/stats/roles", srv.roleStats)
		api.GET("/stats/conclusions", srv.conclusionStats)
	}
	return r
}

// requestLogger logs every request except the socket.io polling noise.
func requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/socket.io") {
		return
	}
	log.Info().Str("method", c.Request.Method).Str("path", path).
		Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
}

func apiError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": code, "message": message})
}

type createGameRequest struct {
	Names    []string      `json:"names" yaml:"names" binding:"required,min=1"`
	Settings settings.File `json:"settings" yaml:"settings"`
}

type seatInfo struct {
	Index game.PlayerIndex `json:"index"`
	Name  string           `json:"name"`
	Token string           `json:"token"`
}

func (srv *Server) createGame(c *gin.Context) {
	var (
		req createGameRequest
		err error
	)
	switch c.ContentType() {
	case "application/yaml", "application/x-yaml":
		err = c.ShouldBindYAML(&req)
	default:
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	gs, err := gameSettings(&req.Settings, len(req.Names))
	if err != nil {
		var se *settings.Error
		if errors.As(err, &se) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_settings", "details": se.Errors})
			return
		}
		apiError(c, http.StatusBadRequest, "invalid_settings", err.Error())
		return
	}

	r, err := srv.games.Create(req.Names, gs)
	switch {
	case engine.IsCapacityError(err):
		apiError(c, http.StatusServiceUnavailable, "capacity", err.Error())
		return
	case engine.IsInvalidSettingsError(err):
		apiError(c, http.StatusBadRequest, "invalid_settings", err.Error())
		return
	case err != nil:
		apiError(c, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	tokens := srv.seats.issue(r.ID(), len(req.Names))
	go srv.forgetWhenDone(r)

	seats := make([]seatInfo, len(req.Names))
	for i, name := range req.Names {
		seats[i] = seatInfo{Index: game.PlayerIndex(i), Name: name, Token: tokens[i]}
	}
	log.Info().Str("game", r.ID()).Int("players", len(seats)).Msg("game created")
	c.JSON(http.StatusCreated, gin.H{"id": r.ID(), "players": seats})
}

func gameSettings(f *settings.File, players int) (game.Settings, error) {
	if err := f.Validate(); err != nil {
		return game.Settings{}, err
	}
	return f.GameFor(players)
}

func (srv *Server) forgetWhenDone(r *engine.Runner) {
	<-r.Done()
	srv.hub.DropGame(r.ID())
	srv.seats.drop(r.ID())
}

func (srv *Server) gameStatus(c *gin.Context) {
	r, err := srv.games.Get(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusNotFound, "game_not_found", err.Error())
		return
	}
	c.JSON(http.StatusOK, r.Status())
}

func catalog(c *gin.Context) {
	roles := game.AllRoles()
	roleNames := make([]string, len(roles))
	for i, r := range roles {
		roleNames[i] = r.String()
	}
	mods := game.AllModifiers()
	modNames := make([]string, len(mods))
	for i, m := range mods {
		modNames[i] = m.String()
	}
	times := map[string]int{}
	for p, d := range game.DefaultPhaseTimes() {
		times[p.String()] = int(d / time.Second)
	}
	c.JSON(http.StatusOK, gin.H{"roles": roleNames, "modifiers": modNames, "phase_times": times})
}

func (srv *Server) history(c *gin.Context) {
	limit := DefaultHistoryLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			apiError(c, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	games, err := srv.store.ListGames(c.Request.Context(), limit)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (srv *Server) historyGame(c *gin.Context) {
	g, err := srv.store.ReadGame(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrGameNotFound):
		apiError(c, http.StatusNotFound, "game_not_found", err.Error())
		return
	case err != nil:
		apiError(c, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	c.JSON(http.StatusOK, g)
}

func (srv *Server) roleStats(c *gin.Context) {
	stats, err := srv.store.RoleStats(c.Request.Context())
	if err != nil {
		apiError(c, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": stats})
}

func (srv *Server) conclusionStats(c *gin.Context) {
	stats, err := srv.store.ConclusionStats(c.Request.Context())
	if err != nil {
		apiError(c, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"conclusions": stats})
}
