package user

import "groceryMarket/domain"

var dashboards = map[string]string{
	domain.RoleCustomer: "/dashboard",
	domain.RoleVendor:   "/vendor-dashboard",
	domain.RoleRider:    "/rider-dashboard",
	domain.RoleAdmin:    "/admin",
}

// RedirectFor returns the dashboard route for role. Unknown roles land on the
// customer dashboard.
func RedirectFor(role string) string {
	if route, ok := dashboards[role]; ok {
		return route
	}
	return dashboards[domain.RoleCustomer]
}
