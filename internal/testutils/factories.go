package testutils

import (
	"time"

	"github.com/google/uuid"
)

// Record is a raw resource as the fake API stores it
type Record = map[string]interface{}

func base(idField string) Record {
	return Record{
		idField:      uuid.NewString(),
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
}

// DomainFactory provides methods to create test domain records
type DomainFactory struct{}

// NewDomainFactory creates a new DomainFactory
func NewDomainFactory() *DomainFactory {
	return &DomainFactory{}
}

// Create creates an enabled test domain
func (f *DomainFactory) Create() Record {
	return f.WithName("pbx.example.com")
}

// WithName creates an enabled domain with a custom name
func (f *DomainFactory) WithName(name string) Record {
	r := base("domain_uuid")
	r["domain_name"] = name
	r["domain_enabled"] = "true"
	return r
}

// ExtensionFactory provides methods to create test extension records
type ExtensionFactory struct{}

// NewExtensionFactory creates a new ExtensionFactory
func NewExtensionFactory() *ExtensionFactory {
	return &ExtensionFactory{}
}

// Create creates extension 1001 in domainUUID
func (f *ExtensionFactory) Create(domainUUID string) Record {
	return f.WithNumber(domainUUID, "1001")
}

// WithNumber creates an enabled extension with a custom number
func (f *ExtensionFactory) WithNumber(domainUUID, number string) Record {
	r := base("extension_uuid")
	r["domain_uuid"] = domainUUID
	r["extension"] = number
	r["enabled"] = "true"
	r["user_context"] = "default"
	r["effective_caller_id_name"] = "Extension " + number
	r["effective_caller_id_number"] = number
	return r
}

// SettingFactory provides methods to create test extension settings
type SettingFactory struct{}

// NewSettingFactory creates a new SettingFactory
func NewSettingFactory() *SettingFactory {
	return &SettingFactory{}
}

// Create creates an enabled variable setting on extensionUUID
func (f *SettingFactory) Create(extensionUUID, name, value string) Record {
	r := base("extension_setting_uuid")
	r["extension_uuid"] = extensionUUID
	r["extension_setting_type"] = "variable"
	r["extension_setting_name"] = name
	r["extension_setting_value"] = value
	r["extension_setting_enabled"] = "true"
	return r
}

// VoicemailFactory provides methods to create test mailbox records
type VoicemailFactory struct{}

// NewVoicemailFactory creates a new VoicemailFactory
func NewVoicemailFactory() *VoicemailFactory {
	return &VoicemailFactory{}
}

// Create creates an enabled mailbox in domainUUID
func (f *VoicemailFactory) Create(domainUUID, mailbox string) Record {
	r := base("voicemail_uuid")
	r["domain_uuid"] = domainUUID
	r["voicemail_id"] = mailbox
	r["voicemail_enabled"] = "true"
	r["voicemail_mail_to"] = mailbox + "@example.com"
	r["voicemail_attach_file"] = "true"
	r["voicemail_local_after_email"] = "true"
	return r
}

// RegistrationFactory provides methods to create test registrations
type RegistrationFactory struct{}

// NewRegistrationFactory creates a new RegistrationFactory
func NewRegistrationFactory() *RegistrationFactory {
	return &RegistrationFactory{}
}

// Create creates a live registration of user at realm
func (f *RegistrationFactory) Create(user, realm string) Record {
	r := base("reg_uuid")
	r["reg_user"] = user
	r["realm"] = realm
	r["hostname"] = "fs01"
	r["expires"] = time.Now().Add(time.Hour).Unix()
	return r
}
