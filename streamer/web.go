package streamer

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/mpusynth/model"
)

var page = template.Must(template.New("root").Parse(`<html><body>
<h2>OSC Server IP Configuration</h2>
<form action="/setip" method="POST">
OSC Server IP: <input type="text" name="ip" value="{{.Target}}">
<input type="submit" value="Update">
</form>
<form action="/button" method="POST">
Mode {{.Mode}} <input type="submit" value="Next mode">
</form>
</body></html>
`))

// Router serves the configuration page.
func (s *Streamer) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/setip", s.handleSetIP).Methods(http.MethodPost)
	router.HandleFunc("/button", s.handleButton).Methods(http.MethodPost)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	return router
}

func (s *Streamer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := page.Execute(w, s.Status()); err != nil {
		slog.Error("streamer: render page", "err", err)
	}
}

func (s *Streamer) handleSetIP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, ok := r.PostForm["ip"]; ok {
		s.SetTarget(r.PostForm.Get("ip"))
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Streamer) handleButton(w http.ResponseWriter, r *http.Request) {
	s.VirtualPress()
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Streamer) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Status())
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}
