package domain

// PromotePermissions права, выдаваемые при повышении участника до администратора
type PromotePermissions struct {
	CanManageChat       bool `json:"canManageChat"`
	CanPostMessages     bool `json:"canPostMessages"`
	CanEditMessages     bool `json:"canEditMessages"`
	CanDeleteMessages   bool `json:"canDeleteMessages"`
	CanManageVideoChats bool `json:"canManageVideoChats"`
	CanRestrictMembers  bool `json:"canRestrictMembers"`
	CanPromoteMembers   bool `json:"canPromoteMembers"`
	CanChangeInfo       bool `json:"canChangeInfo"`
	CanInviteUsers      bool `json:"canInviteUsers"`
	CanPinMessages      bool `json:"canPinMessages"`
}

// DefaultPromotePermissions политика по умолчанию: разрешено только приглашать пользователей
func DefaultPromotePermissions() PromotePermissions {
	return PromotePermissions{
		CanInviteUsers: true,
	}
}
