// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ПЕРМИШЕНОВ В СИСТЕМЕ ---

const (
	// Область видимости: доступ к любой заявке без проверки назначения
	ScopeAll = "scope:all"

	// Заявки (Orders)
	OrdersCreate       = "orders:create"
	OrdersList         = "orders:list"
	OrdersView         = "orders:view"
	OrdersUpdate       = "orders:update"
	OrdersAssign       = "orders:assign"
	OrdersClose        = "orders:close"
	OrdersStatusUpdate = "orders:status:update"
	OrdersSelfAssign   = "orders:self_assign"
	OrdersReassign     = "orders:reassign"
	OrdersTechView     = "orders:tech:view"

	// Комментарии и вложения
	CommentsClientCreate       = "comments:client:create"
	CommentsTechnicalCreate    = "comments:technical:create"
	CommentsStatusUpdateCreate = "comments:status_update:create"
	AttachmentsCreate          = "orders:attachments:create"

	// Пользователи (Users)
	UsersView   = "users:view"
	UsersManage = "users:manage"

	// Клиенты (Clients)
	ClientsView   = "clients:view"
	ClientsManage = "clients:manage"

	// Отчёты (Reports)
	ReportsStatus   = "reports:status"
	ReportsAdvanced = "reports:advanced"
	ReportsExport   = "reports:export"
)
