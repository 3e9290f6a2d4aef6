package console

import (
	"net/http"

	"github.com/user/labconsole/respond"
	"github.com/user/labconsole/router"
	"github.com/user/labconsole/semesters"
	"github.com/user/labconsole/users"
)

type screen struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Title string `json:"title"`
}

type dashboard struct {
	User            *users.User         `json:"user"`
	CurrentSemester *semesters.Semester `json:"current_semester"`
	Screens         []screen            `json:"screens"`
}

// handleDashboard greets the operator with their profile, the active
// semester and the screens they can open. A missing semester is not an
// error: the server answers 404 until one is activated.
func (s *Server) handleDashboard(svc *semesters.SemesterService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := dashboard{User: s.store.User()}
		if env, err := svc.Current(r.Context()); err != nil {
			s.log.WithError(err).Debug("no current semester")
		} else {
			page.CurrentSemester = &env.Data
		}
		for _, rt := range router.Routes() {
			if rt.Public || rt.Name == router.Dashboard.Name {
				continue
			}
			page.Screens = append(page.Screens, screen{Name: rt.Name, Path: rt.Path, Title: rt.Title})
		}
		respond.JSON(w, r, http.StatusOK, page)
	}
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, r, http.StatusNotFound, "no such screen: "+r.URL.Path)
}
