package authz

import (
	"fixtrack/internal/entities"
	"fixtrack/pkg/constants"
)

// rolePermissions каждой роли соответствует фиксированный набор разрешённых операций.
var rolePermissions = map[constants.Role]map[string]bool{
	constants.RoleAdmin: set(
		ScopeAll,
		OrdersCreate, OrdersList, OrdersView, OrdersUpdate, OrdersAssign, OrdersClose,
		OrdersStatusUpdate, OrdersTechView,
		CommentsClientCreate, CommentsTechnicalCreate, CommentsStatusUpdateCreate, AttachmentsCreate,
		UsersView, UsersManage,
		ClientsView, ClientsManage,
		ReportsStatus, ReportsAdvanced, ReportsExport,
	),
	constants.RoleSecretary: set(
		ScopeAll,
		OrdersCreate, OrdersList, OrdersView, OrdersUpdate, OrdersAssign, OrdersClose,
		CommentsClientCreate, CommentsStatusUpdateCreate,
		UsersView,
		ClientsView, ClientsManage,
		ReportsStatus, ReportsExport,
	),
	constants.RoleTechnician: set(
		OrdersView, OrdersStatusUpdate, OrdersSelfAssign, OrdersReassign, OrdersTechView,
		CommentsTechnicalCreate, CommentsStatusUpdateCreate, AttachmentsCreate,
	),
}

func set(perms ...string) map[string]bool {
	m := make(map[string]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

// Session контекст аутентифицированного сотрудника.
type Session struct {
	AccountID          uint64         `json:"id"`
	Username           string         `json:"username"`
	Role               constants.Role `json:"role"`
	MustChangePassword bool           `json:"must_change_password"`
}

// Can чистая проверка принадлежности операции набору роли.
func Can(role constants.Role, permission string) bool {
	return rolePermissions[role][permission]
}

// CanAny истинно, если роль владеет хотя бы одним из разрешений.
func CanAny(role constants.Role, permissions ...string) bool {
	for _, p := range permissions {
		if Can(role, p) {
			return true
		}
	}
	return false
}

// PermissionsFor копия набора прав роли (для профиля и клиента).
func PermissionsFor(role constants.Role) []string {
	out := make([]string, 0, len(rolePermissions[role]))
	for p := range rolePermissions[role] {
		out = append(out, p)
	}
	return out
}

func (s *Session) Can(permission string) bool {
	return s != nil && Can(s.Role, permission)
}

// CanAccessOrder проверка владения: scope:all видит всё, остальные только назначенные на них заявки.
func (s *Session) CanAccessOrder(order *entities.Order) bool {
	if s == nil || order == nil {
		return false
	}
	if s.Can(ScopeAll) {
		return true
	}
	return order.IsAssignedTo(s.AccountID)
}

// CommentPermission право, требуемое для создания комментария заданного типа.
func CommentPermission(t constants.CommentType) string {
	switch t {
	case constants.CommentTechnical:
		return CommentsTechnicalCreate
	case constants.CommentStatusUpdate:
		return CommentsStatusUpdateCreate
	default:
		return CommentsClientCreate
	}
}
