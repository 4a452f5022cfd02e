package application

import "github.com/oksasatya/academic-bridge/internal/domain/entity"

type MenuItem struct {
	Key    string `json:"key"`
	Href   string `json:"href"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

var (
	industryMenu = []MenuItem{
		{Key: "dashboard", Href: "/dashboard", Label: "Dashboard"},
		{Key: "projects", Href: "/projects", Label: "My projects"},
		{Key: "new-project", Href: "/projects/new", Label: "New project"},
	}
	academicMenu = []MenuItem{
		{Key: "dashboard", Href: "/dashboard", Label: "Dashboard"},
		{Key: "projects", Href: "/projects", Label: "My projects"},
	}
	adminMenu = []MenuItem{
		{Key: "admin-dashboard", Href: "/admin/dashboard", Label: "Admin dashboard"},
		{Key: "admin-projects", Href: "/admin/projects", Label: "Project management"},
		{Key: "admin-users", Href: "/admin/users", Label: "User management"},
		{Key: "admin-settings", Href: "/admin/settings", Label: "Settings"},
	}
)

// MenuFor returns the navigation for role with the item matching path marked active.
func MenuFor(role entity.UserType, path string) []MenuItem {
	var base []MenuItem
	switch {
	case role == entity.UserTypeAdmin:
		base = adminMenu
	case role.IsAcademic():
		base = academicMenu
	case role == entity.UserTypeIndustry:
		base = industryMenu
	default:
		return []MenuItem{}
	}
	out := make([]MenuItem, len(base))
	for i, item := range base {
		item.Active = path != "" && item.Href == path
		out[i] = item
	}
	return out
}
