// pkg/constants/constants.go
package constants

//============== РОЛИ ==============

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSecretary  Role = "secretary"
	RoleTechnician Role = "technician"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleTechnician:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

//============== ТИПЫ УСЛУГ ==============

type ServiceType string

const (
	ServiceEquipmentRepair  ServiceType = "equipment_repair"
	ServiceRemoteAssistance ServiceType = "remote_assistance"
)

var serviceTypeLabels = map[ServiceType]string{
	ServiceEquipmentRepair:  "Ремонт оборудования",
	ServiceRemoteAssistance: "Удалённая помощь",
}

func (t ServiceType) IsValid() bool {
	_, ok := serviceTypeLabels[t]
	return ok
}

func (t ServiceType) Label() string {
	if label, ok := serviceTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

//============== ТИПЫ КОММЕНТАРИЕВ ==============

type CommentType string

const (
	CommentClient       CommentType = "client"
	CommentTechnical    CommentType = "technical"
	CommentStatusUpdate CommentType = "status_update"
)

func (t CommentType) IsValid() bool {
	switch t {
	case CommentClient, CommentTechnical, CommentStatusUpdate:
		return true
	}
	return false
}

// ParseCommentTypeOrDefault возвращает client для пустого или неизвестного значения.
func ParseCommentTypeOrDefault(value string) CommentType {
	t := CommentType(value)
	if t.IsValid() {
		return t
	}
	return CommentClient
}

//============== ФАЙЛЫ ==============

// UploadPrefixOrders поддиректория хранилища для вложений заявок.
const UploadPrefixOrders = "orders"

// UploadURLPrefix публичный префикс, по которому echo раздаёт сохранённые файлы.
const UploadURLPrefix = "/uploads/"

// ReportCacheGenerationKey счётчик поколения кеша отчётов. Значение входит в ключ каждого отчёта,
// поэтому его увеличение делает все закешированные отчёты недоступными.
const ReportCacheGenerationKey = "reports:generation"
