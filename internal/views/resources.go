package views

import (
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/notify"
)

type (
	DomainList           = ListView[freeswitch.Domain, freeswitch.DomainCreate, freeswitch.DomainUpdate]
	ExtensionList        = ListView[freeswitch.Extension, freeswitch.ExtensionCreate, freeswitch.ExtensionUpdate]
	VoicemailList        = ListView[freeswitch.Voicemail, freeswitch.VoicemailCreate, freeswitch.VoicemailUpdate]
	ContactList          = ListView[freeswitch.Contact, freeswitch.ContactCreate, freeswitch.ContactUpdate]
	UserList             = ListView[freeswitch.User, freeswitch.UserCreate, freeswitch.UserUpdate]
	DialplanList         = ListView[freeswitch.Dialplan, freeswitch.DialplanCreate, freeswitch.DialplanUpdate]
	ExtensionSettingList = ListView[freeswitch.ExtensionSetting, freeswitch.ExtensionSettingCreate, freeswitch.ExtensionSettingUpdate]
)

func NewDomainList(api *freeswitch.API, n notify.Notifier) *DomainList {
	return NewListView[freeswitch.Domain, freeswitch.DomainCreate, freeswitch.DomainUpdate](
		api.Domains, n, Labels{Singular: "domain", Plural: "domains"})
}

func NewExtensionList(api *freeswitch.API, n notify.Notifier) *ExtensionList {
	return NewListView[freeswitch.Extension, freeswitch.ExtensionCreate, freeswitch.ExtensionUpdate](
		api.Extensions, n, Labels{Singular: "extension", Plural: "extensions"})
}

func NewVoicemailList(api *freeswitch.API, n notify.Notifier) *VoicemailList {
	return NewListView[freeswitch.Voicemail, freeswitch.VoicemailCreate, freeswitch.VoicemailUpdate](
		api.Voicemails, n, Labels{Singular: "voicemail", Plural: "voicemails"})
}

func NewContactList(api *freeswitch.API, n notify.Notifier) *ContactList {
	return NewListView[freeswitch.Contact, freeswitch.ContactCreate, freeswitch.ContactUpdate](
		api.Contacts, n, Labels{Singular: "contact", Plural: "contacts"})
}

func NewUserList(api *freeswitch.API, n notify.Notifier) *UserList {
	return NewListView[freeswitch.User, freeswitch.UserCreate, freeswitch.UserUpdate](
		api.Users, n, Labels{Singular: "user", Plural: "users"})
}

func NewDialplanList(api *freeswitch.API, n notify.Notifier) *DialplanList {
	return NewListView[freeswitch.Dialplan, freeswitch.DialplanCreate, freeswitch.DialplanUpdate](
		api.Dialplans, n, Labels{Singular: "dialplan", Plural: "dialplans"})
}

func NewExtensionSettingList(api *freeswitch.API, n notify.Notifier) *ExtensionSettingList {
	return NewListView[freeswitch.ExtensionSetting, freeswitch.ExtensionSettingCreate, freeswitch.ExtensionSettingUpdate](
		api.ExtensionSettings, n, Labels{Singular: "extension setting", Plural: "extension settings"})
}
