package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"vineyard-quiz/internal/app"
	"vineyard-quiz/internal/domain"
	"vineyard-quiz/internal/questions"
)

type nameRequest struct {
	UserName string `json:"userName"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type answerResponse struct {
	app.AnswerOutcome
	// Varietal names the grape behind the correct answer when it can be elaborated.
	Varietal string   `json:"varietal,omitempty"`
	View     app.View `json:"view"`
}

type generateResponse struct {
	Question domain.Question `json:"question"`
	View     app.View        `json:"view"`
}

type varietalResponse struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Description string `json:"description"`
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (a *API) handleVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"version": a.opts.Version})
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id := getOrSetIdentity(w, r)
	name, err := a.profiles.Name(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Profile{ID: id, UserName: name})
}

func (a *API) handlePutProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id := getOrSetIdentity(w, r)
	var req nameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	profile, err := a.profiles.SetName(r.Context(), id, req.UserName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *API) handleSampleQuestions(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, a.games.Supply().SampleTen())
}

func (a *API) handleVarietal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, ok := questions.LookupVarietal(ps.ByName("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown varietal")
		return
	}
	text, err := a.games.Supply().Elaborate(r.Context(), v.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, varietalResponse{Name: v.Name, Country: v.Country, Description: text})
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id := getOrSetIdentity(w, r)
	var req nameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name, err := a.resolveName(r.Context(), id, req.UserName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sess, err := a.games.CreateSession(r.Context(), id, name, a.games.Supply().SampleTen())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	a.logf("GAME: %s created by %s", sess.Code, id)
	writeJSON(w, http.StatusCreated, app.Project(sess, id))
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := getOrSetIdentity(w, r)
	sess, err := a.games.Get(r.Context(), ps.ByName("code"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Project(sess, id))
}

func (a *API) handleJoin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := getOrSetIdentity(w, r)
	var req nameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name, err := a.resolveName(r.Context(), id, req.UserName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sess, err := a.games.JoinSession(r.Context(), ps.ByName("code"), id, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Project(sess, id))
}

func (a *API) handleAnswer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := getOrSetIdentity(w, r)
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	out, err := a.games.SubmitAnswer(r.Context(), ps.ByName("code"), id, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerPayloadFor(out, id))
}

func (a *API) handleAdvance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := getOrSetIdentity(w, r)
	sess, err := a.games.AdvanceQuestion(r.Context(), ps.ByName("code"), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Project(sess, id))
}

func (a *API) handleRestart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := getOrSetIdentity(w, r)
	sess, err := a.games.RestartSession(r.Context(), ps.ByName("code"), id, a.games.Supply().SampleTen())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Project(sess, id))
}

func (a *API) handleGenerate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := getOrSetIdentity(w, r)
	var req topicRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	q, sess, err := a.games.GenerateQuestion(r.Context(), ps.ByName("code"), id, req.Topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, generateResponse{Question: q, View: app.Project(sess, id)})
}

// resolveName prefers the name in the request and remembers it; otherwise the
// saved profile name is used.
func (a *API) resolveName(ctx context.Context, id, requested string) (string, error) {
	if strings.TrimSpace(requested) != "" {
		profile, err := a.profiles.SetName(ctx, id, requested)
		if err != nil {
			return "", err
		}
		return profile.UserName, nil
	}
	name, err := a.profiles.Name(ctx, id)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return "", domain.ErrInvalidName
	}
	return name, err
}

func answerPayloadFor(out app.AnswerOutcome, id string) answerResponse {
	resp := answerResponse{AnswerOutcome: out, View: app.Project(out.Session, id)}
	if q, ok := out.Session.CurrentQuestion(); ok {
		if v, ok := questions.VarietalForAnswer(q.CorrectAnswer); ok {
			resp.Varietal = v.Name
		}
	}
	return resp
}
