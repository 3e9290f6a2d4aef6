// Package router is the console's route table and the navigation guard that
// decides, before any screen is rendered, whether the operator may see it.
package router

import "strings"

// Route is a console screen. Title is shown as page chrome; public screens
// are reachable without a session.
type Route struct {
	Name   string
	Path   string
	Title  string
	Public bool
}

var (
	Dashboard      = Route{Name: "dashboard", Path: "/", Title: "Dashboard"}
	Login          = Route{Name: "login", Path: "/login", Title: "Sign in", Public: true}
	Logout         = Route{Name: "logout", Path: "/logout", Title: "Sign out", Public: true}
	Register       = Route{Name: "register", Path: "/register", Title: "Register", Public: true}
	ResetPassword  = Route{Name: "reset-password", Path: "/reset-password", Title: "Reset password", Public: true}
	ChangePassword = Route{Name: "change-password", Path: "/change-password", Title: "Change password"}
	Session        = Route{Name: "session", Path: "/session", Title: "Session"}
	Users          = Route{Name: "users", Path: "/users", Title: "Users"}
	Reservations   = Route{Name: "reservations", Path: "/reservations", Title: "Reservations"}
	Courses        = Route{Name: "courses", Path: "/courses", Title: "Courses"}
	Labs           = Route{Name: "labs", Path: "/labs", Title: "Labs"}
	Equipments     = Route{Name: "equipments", Path: "/equipments", Title: "Equipment"}
	Semesters      = Route{Name: "semesters", Path: "/semesters", Title: "Semesters"}
	Export         = Route{Name: "export", Path: "/export/reservations", Title: "Export"}
)

// Routes returns every screen in display order.
func Routes() []Route {
	return []Route{
		Dashboard, Login, Logout, Register, ResetPassword, ChangePassword, Session,
		Users, Reservations, Courses, Labs, Equipments, Semesters, Export,
	}
}

// Match finds the route serving path. Sub-paths such as /users/3 inherit
// their parent's metadata; unknown paths report false.
func Match(path string) (Route, bool) {
	var best Route
	found := false
	for _, rt := range Routes() {
		if rt.Path == "/" {
			continue
		}
		if path == rt.Path || strings.HasPrefix(path, rt.Path+"/") {
			if !found || len(rt.Path) > len(best.Path) {
				best, found = rt, true
			}
		}
	}
	if !found && path == "/" {
		return Dashboard, true
	}
	return best, found
}
