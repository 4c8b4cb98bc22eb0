package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/roach88/duskfall/internal/game"
)

const snapshotTimeout = 5 * time.Second

// ConnCtx is stored on each socket once it has joined a seat.
type ConnCtx struct {
	Game   string
	Player game.PlayerIndex
}

// conn is the part of socketio.Conn the event handlers use.
type conn interface {
	emitter
	Context() interface{}
	SetContext(v interface{})
}

type joinRequest struct {
	Game  string `json:"game"`
	Token string `json:"token"`
}

// Mount attaches the socket.io server to r.
//
// Events from the client:
//
//	game:join      {game, token}     take a seat, ack carries a snapshot
//	game:message   {type, data}      any client message
//	game:snapshot                    resend the caller's snapshot
//
// Packets arrive on game:packet as {type, data}.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Debug().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "game:join", func(s socketio.Conn, payload joinRequest) map[string]any {
		return srv.join(s, payload)
	})

	io.OnEvent("/", "game:message", func(s socketio.Conn, payload json.RawMessage) map[string]any {
		return srv.message(s, payload)
	})

	io.OnEvent("/", "game:snapshot", func(s socketio.Conn) map[string]any {
		return srv.snapshot(s)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.leave(s)
		log.Debug().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", srv.cors)
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func joined(s conn) (*ConnCtx, bool) {
	cc, ok := s.Context().(*ConnCtx)
	if !ok || cc.Game == "" {
		return nil, false
	}
	return cc, true
}

func (srv *Server) join(s conn, req joinRequest) map[string]any {
	st, ok := srv.seats.lookup(req.Token)
	if !ok || st.game != req.Game {
		return fail(s, "unauthorized", "unknown seat token")
	}
	r, err := srv.games.Get(st.game)
	if err != nil {
		srv.seats.drop(st.game)
		return fail(s, "game_not_found", err.Error())
	}

	srv.leave(s)
	s.SetContext(&ConnCtx{Game: st.game, Player: st.player})
	if srv.hub.Attach(st.game, st.player, s) == 1 {
		if err := r.Connect(st.player); err != nil {
			return fail(s, "game_stopped", err.Error())
		}
	}
	log.Info().Str("sid", s.ID()).Str("game", st.game).Uint8("player", uint8(st.player)).Msg("game:join")

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	snap, err := r.Snapshot(ctx, st.player)
	if err != nil {
		return fail(s, "snapshot_failed", err.Error())
	}
	return map[string]any{"ok": true, "player": st.player, "snapshot": snap}
}

func (srv *Server) message(s conn, payload json.RawMessage) map[string]any {
	cc, ok := joined(s)
	if !ok {
		return fail(s, "not_joined", "join a game first")
	}
	msg, err := DecodeClientMessage(payload)
	if err != nil {
		return fail(s, "bad_message", err.Error())
	}
	r, err := srv.games.Get(cc.Game)
	if err != nil {
		return fail(s, "game_not_found", err.Error())
	}
	if err := r.Submit(cc.Player, msg); err != nil {
		return fail(s, "game_stopped", err.Error())
	}
	return map[string]any{"ok": true}
}

func (srv *Server) snapshot(s conn) map[string]any {
	cc, ok := joined(s)
	if !ok {
		return fail(s, "not_joined", "join a game first")
	}
	r, err := srv.games.Get(cc.Game)
	if err != nil {
		return fail(s, "game_not_found", err.Error())
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	snap, err := r.Snapshot(ctx, cc.Player)
	if err != nil {
		return fail(s, "snapshot_failed", err.Error())
	}
	return map[string]any{"ok": true, "snapshot": snap}
}

// leave detaches s from its seat. The player is marked disconnected once
// their last socket is gone.
func (srv *Server) leave(s conn) {
	cc, ok := joined(s)
	if !ok {
		return
	}
	s.SetContext(&ConnCtx{})
	if srv.hub.Detach(cc.Game, cc.Player, s.ID()) > 0 {
		return
	}
	if r, err := srv.games.Get(cc.Game); err == nil {
		if err := r.Disconnect(cc.Player); err != nil {
			log.Debug().Err(err).Str("game", cc.Game).Msg("disconnect after stop")
		}
	}
}

func fail(s conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"ok": false, "error": code, "message": message}
}
