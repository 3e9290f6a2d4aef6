package router

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/user/labconsole/respond"
	"github.com/user/labconsole/session"
)

// SessionState is the part of the session store the guard consults.
type SessionState interface {
	IsAuthenticated() bool
	FetchCurrentUser(ctx context.Context, force bool) session.ProfileResult
}

// Destination is where the operator is navigating to.
type Destination struct {
	Route Route
	// Path is the full intended path including any query string.
	Path string
}

// DecisionKind tells allow from redirect.
type DecisionKind int

const (
	Allow DecisionKind = iota
	Redirect
)

// Decision is the guard's verdict. Location is set for redirects, Title for
// allowed navigations.
type Decision struct {
	Kind     DecisionKind
	Location string
	Title    string
}

// Options tune the guard.
type Options struct {
	// AppName is appended to every page title.
	AppName string
	// RedirectRegister also sends signed-in operators away from /register.
	RedirectRegister bool
}

// Guard runs before every navigation.
type Guard struct {
	session SessionState
	opts    Options
	log     *logrus.Logger
}

// NewGuard creates a Guard.
func NewGuard(s SessionState, opts Options, log *logrus.Logger) *Guard {
	return &Guard{session: s, opts: opts, log: log}
}

// Resolve decides whether the navigation to dest may proceed. It never
// fails: problems with the session resolve to a redirect to sign-in.
func (g *Guard) Resolve(ctx context.Context, dest Destination) Decision {
	if g.session.IsAuthenticated() {
		res := g.session.FetchCurrentUser(ctx, false)
		if res.Status == session.ProfileFailed {
			g.log.WithError(res.Err).WithField("path", dest.Path).Debug("profile unavailable during navigation")
			if !dest.Route.Public {
				return Decision{Kind: Redirect, Location: LoginRedirect(dest.Path)}
			}
		}
	}

	authenticated := g.session.IsAuthenticated()
	if !authenticated && !dest.Route.Public {
		return Decision{Kind: Redirect, Location: LoginRedirect(dest.Path)}
	}
	if authenticated && (dest.Route.Name == Login.Name || (g.opts.RedirectRegister && dest.Route.Name == Register.Name)) {
		return Decision{Kind: Redirect, Location: Dashboard.Path}
	}
	return Decision{Kind: Allow, Title: g.title(dest.Route)}
}

func (g *Guard) title(rt Route) string {
	switch {
	case rt.Title == "":
		return g.opts.AppName
	case g.opts.AppName == "":
		return rt.Title
	default:
		return rt.Title + " | " + g.opts.AppName
	}
}

// Middleware guards the screens served behind it as route. Redirects answer
// 302; allowed requests carry the page title in X-Page-Title and in the
// request context.
func (g *Guard) Middleware(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dest := Destination{Route: route, Path: r.URL.RequestURI()}
			d := g.Resolve(r.Context(), dest)
			if d.Kind == Redirect {
				g.log.WithFields(logrus.Fields{
					"from": dest.Path,
					"to":   d.Location,
				}).Debug("navigation redirected")
				http.Redirect(w, r, d.Location, http.StatusFound)
				return
			}
			if d.Title != "" {
				w.Header().Set("X-Page-Title", d.Title)
			}
			next.ServeHTTP(w, r.WithContext(respond.WithTitle(r.Context(), d.Title)))
		})
	}
}

// LoginRedirect is the sign-in location that returns to path afterwards.
// The root path needs no return parameter. Slashes stay unescaped so the
// location reads /login?redirect=/users.
func LoginRedirect(path string) string {
	if path == "" || path == "/" {
		return Login.Path
	}
	return Login.Path + "?redirect=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}
