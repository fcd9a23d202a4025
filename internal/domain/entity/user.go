package entity

// Roles reconocidos en los claims del token.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// CurrentUser es la identidad de sesión consumida por el POS (nunca se modifica aquí).
type CurrentUser struct {
	ID                string
	BusinessID        string
	DefaultLocationID string
	Role              string
}

// CanEditSales indica si el rol puede cargar y reenviar ventas históricas.
func (u CurrentUser) CanEditSales() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
