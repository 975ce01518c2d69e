package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/adrienmarquer/blindtest/internal/hub"
	"github.com/adrienmarquer/blindtest/internal/media"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/modes"
	"github.com/adrienmarquer/blindtest/internal/store"
	"github.com/adrienmarquer/blindtest/internal/store/gormstore"
	"github.com/adrienmarquer/blindtest/internal/store/memstore"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

const timeout time.Duration = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 12,
	WriteBufferSize: 1 << 12,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

// checkAdminPassword reports whether supplied matches cfg's configured
// admin secret, using a constant-time comparison so response timing can't
// leak how many leading bytes matched. No pack example wires a bare shared-
// secret gate (mmausa2000-ubible's admin/auth.go is a full JWT+bcrypt user
// login, a different shape of problem); crypto/subtle is the stdlib primitive
// built for exactly this comparison, so it's used directly rather than
// pulled in through a larger auth library.
func checkAdminPassword(cfg *Config, supplied string) bool {
	if cfg.adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cfg.adminPassword), []byte(supplied)) == 1
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		securityHeaders(cfg, w)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, "ok\n"); err != nil {
			errs <- err
		}
	}
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		_, err := w.Write([]byte("blindtest v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err
			return
		}

		logf(cfg, "SERVE: version page served to %s in %s", realIP(r), time.Since(startTime).Round(time.Microsecond))
	}
}

// serveJoin upgrades a player connection into room :code and attaches it to
// the Hub (spec §4.1/§4.2). A playerId query param reconnects an existing
// player; its absence starts a join handshake the Engine's actionJoin
// handler completes once the client sends its join message.
func serveJoin(cfg *Config, h *hub.Hub, repos store.Repositories, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code := p.ByName("code")

		room, err := repos.Rooms.FindByCode(r.Context(), code)
		if err != nil || room == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		identity := transport.Identity{
			RoomID:   room.ID,
			PlayerID: r.URL.Query().Get("playerId"),
		}
		if identity.PlayerID == "" {
			identity.PlayerID = uuid.NewString()
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errs <- err
			return
		}

		conn := transport.NewConn(ws, identity)
		h.Attach(room, conn)

		go conn.WritePump()
		conn.ReadPump(
			func(msg transport.Message) { h.Submit(room.ID, conn, msg) },
			func(err error) { logf(cfg, "SERVE: malformed frame room=%s: %v", room.ID, err) },
			func() { h.Detach(room.ID, conn) },
		)
	}
}

// serveMaster is the master's entry point: it demands the admin password
// once (spec §1 "admin authentication" is an external collaborator contract;
// the shape of that gate is the one piece this server implements directly)
// before upgrading into the same room, with Identity.IsMaster set.
func serveMaster(cfg *Config, h *hub.Hub, repos store.Repositories, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code := p.ByName("code")

		if !checkAdminPassword(cfg, r.URL.Query().Get("password")) {
			http.Error(w, "invalid admin password", http.StatusUnauthorized)
			return
		}

		room, err := repos.Rooms.FindByCode(r.Context(), code)
		if err != nil || room == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errs <- err
			return
		}

		identity := transport.Identity{RoomID: room.ID, IsMaster: true, PlayerID: "master"}
		conn := transport.NewConn(ws, identity)
		h.Attach(room, conn)

		go conn.WritePump()
		conn.ReadPump(
			func(msg transport.Message) { h.Submit(room.ID, conn, msg) },
			func(err error) { logf(cfg, "SERVE: malformed frame room=%s: %v", room.ID, err) },
			func() { h.Detach(room.ID, conn) },
		)
	}
}

// serveStartGame is the "game start" HTTP collaborator named in spec §6.2,
// guarded by the same admin-password gate as serveMaster.
func serveStartGame(cfg *Config, h *hub.Hub, repos store.Repositories, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code := p.ByName("code")

		if !checkAdminPassword(cfg, r.URL.Query().Get("password")) {
			http.Error(w, "invalid admin password", http.StatusUnauthorized)
			return
		}

		room, err := repos.Rooms.FindByCode(r.Context(), code)
		if err != nil || room == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		var configs []model.RoundConfig
		if err := json.NewDecoder(r.Body).Decode(&configs); err != nil {
			http.Error(w, "malformed round configuration", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := h.StartGame(ctx, room.ID, configs); err != nil {
			errs <- err
			http.Error(w, "failed to start game", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func newHub(cfg *Config, repos store.Repositories) *hub.Hub {
	return hub.New(hub.Config{
		Modes:          modes.Default(),
		Media:          media.Default(),
		Repos:          repos,
		SystemDefaults: cfg.systemDefaults(),
		ReconnectGrace: cfg.reconnectGrace,
		Logf:           func(format string, args ...any) { logf(cfg, format, args...) },
	})
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: blindtest v%s", releaseVersion)

	// With no DSN configured, the server runs entirely on in-memory storage
	// (spec's documented default runtime); postgres is opt-in via --db-dsn.
	var repos store.Repositories
	if cfg.dbDSN == "" {
		logf(cfg, "START: no --db-dsn configured, running on in-memory storage")
		repos = memstore.New()
	} else {
		db, err := gormstore.Open(cfg.dbDSN)
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		repos = gormstore.New(db)
	}

	h := newHub(cfg, repos)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := hub.Housekeeping(ctx, repos, cfg.roomPurgeAfter, func(f string, a ...any) { logf(cfg, f, a...) })
				if err != nil {
					logf(cfg, "SERVE: housekeeping pass failed: %v", err)
					continue
				}
				if purged > 0 {
					logf(cfg, "SERVE: housekeeping purged %d finished rooms", purged)
				}
			}
		}
	}()

	mux := httprouter.New()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "An error has occurred. Please try again.")
	}

	errs := make(chan error, 64)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))
	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))
	mux.GET(cfg.prefix+"/rooms/:code/join", serveJoin(cfg, h, repos, errs))
	mux.GET(cfg.prefix+"/rooms/:code/master", serveMaster(cfg, h, repos, errs))
	mux.POST(cfg.prefix+"/rooms/:code/start", serveStartGame(cfg, h, repos, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	go func() {
		for err := range errs {
			logf(cfg, "SERVE: %v", err)
		}
	}()

	go func() {
		var err error
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			logf(cfg, "SERVE: listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			logf(cfg, "SERVE: listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("%s | ERROR: %v\n", time.Now().Format(logDate), err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	return nil
}
