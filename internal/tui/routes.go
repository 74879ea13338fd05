// ABOUTME: Static route table for the TUI router
// ABOUTME: Unknown navigation tokens resolve to the login route

package tui

// View names used by the route table and the view loader.
const (
	ViewChat  = "chat"
	ViewLogin = "login"
)

// Navigation tokens.
const (
	TokenRoot  = "/"
	TokenLogin = "/login"
)

// Route maps a navigation token to a view and its authentication requirement.
type Route struct {
	Token        string
	View         string
	RequiresAuth bool
}

var routes = map[string]Route{
	TokenRoot:  {Token: TokenRoot, View: ViewChat, RequiresAuth: true},
	TokenLogin: {Token: TokenLogin, View: ViewLogin, RequiresAuth: false},
}

// resolveRoute maps a token to a route. An empty token means the root; an
// unknown token resolves to the login route.
func resolveRoute(token string) Route {
	if token == "" {
		token = TokenRoot
	}
	if r, ok := routes[token]; ok {
		return r
	}
	return routes[TokenLogin]
}
