package core

// Visibility controls whether a type, field, or function can be resolved
// from outside its declaring module.
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityModule
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityModule:
		return "module"
	case VisibilityPublic:
		return "public"
	default:
		return "unknown"
	}
}

// IsVisible reports whether an item with this visibility can be seen from
// the given scope: public is visible everywhere, module is visible from
// module-or-narrower scopes, private only from private scope.
func (v Visibility) IsVisible(scope Visibility) bool {
	return v >= scope
}

func (v Visibility) IsPublic() bool {
	return v == VisibilityPublic
}

func (v Visibility) IsModule() bool {
	return v == VisibilityModule
}

func (v Visibility) IsPrivate() bool {
	return v == VisibilityPrivate
}
