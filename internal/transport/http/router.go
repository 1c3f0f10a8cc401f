package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"vineyard-quiz/internal/app"
)

// Options tune the HTTP surface.
type Options struct {
	// Prefix is prepended to every route, for use behind a reverse proxy.
	Prefix  string
	Verbose bool
	Version string
}

// API serves the REST endpoints and the websocket view stream.
type API struct {
	games    *app.GameService
	profiles *app.ProfileService
	store    app.SessionStore
	opts     Options
	upgrader websocket.Upgrader
}

func NewAPI(games *app.GameService, profiles *app.ProfileService, store app.SessionStore, opts Options) *API {
	opts.Prefix = strings.TrimSuffix(opts.Prefix, "/")
	return &API{
		games:    games,
		profiles: profiles,
		store:    store,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router registers every route on a fresh httprouter.
func (a *API) Router() http.Handler {
	mux := httprouter.New()
	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, i)
		writeError(w, http.StatusInternalServerError, "request failed")
	}

	p := a.opts.Prefix
	mux.GET(p+"/healthz", a.handleHealth)
	mux.GET(p+"/version", a.handleVersion)

	mux.GET(p+"/profile", a.handleGetProfile)
	mux.PUT(p+"/profile", a.handlePutProfile)

	mux.GET(p+"/questions/sample", a.handleSampleQuestions)
	mux.GET(p+"/varietals/:name", a.handleVarietal)

	mux.POST(p+"/sessions", a.handleCreateSession)
	mux.GET(p+"/sessions/:code", a.handleGetSession)
	mux.POST(p+"/sessions/:code/join", a.handleJoin)
	mux.POST(p+"/sessions/:code/answer", a.handleAnswer)
	mux.POST(p+"/sessions/:code/advance", a.handleAdvance)
	mux.POST(p+"/sessions/:code/restart", a.handleRestart)
	mux.POST(p+"/sessions/:code/questions", a.handleGenerate)
	mux.GET(p+"/sessions/:code/ws", a.ServeWS)
	mux.GET(p+"/sessions/:code/qr", a.handleQR)

	return a.logRequests(mux)
}
