// Package routeguard decides where the client router sends a visitor based on
// their authentication state and role. It is navigation policy, not security:
// the server-side gate is what actually protects the API.
package routeguard

import "storefront/internal/auth"

type RouteClass string

const (
	RoutePublic RouteClass = "public"
	RouteShop   RouteClass = "shop"
	RouteAdmin  RouteClass = "admin"
)

const (
	LoginPath        = "/auth/login"
	ShopHomePath     = "/shop/home"
	AdminHomePath    = "/admin/dashboard"
	UnauthorizedPath = "/unauth-page"
)

type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision             { return Decision{Allow: true} }
func redirect(to string) Decision { return Decision{RedirectTo: to} }

// Decide maps (authenticated, role, requested route class) to a navigation
// decision. Unauthenticated visitors may only see public routes; authenticated
// visitors are kept inside their role's route tree and bounced off the login
// page back to their home.
func Decide(authenticated bool, role auth.Role, requested RouteClass) Decision {
	if !authenticated {
		if requested == RoutePublic {
			return allow()
		}
		return redirect(LoginPath)
	}
	switch requested {
	case RoutePublic:
		if role == auth.RoleAdmin {
			return redirect(AdminHomePath)
		}
		return redirect(ShopHomePath)
	case RouteShop:
		if role == auth.RoleAdmin {
			return redirect(AdminHomePath)
		}
		return allow()
	case RouteAdmin:
		if role != auth.RoleAdmin {
			return redirect(UnauthorizedPath)
		}
		return allow()
	}
	return redirect(LoginPath)
}
