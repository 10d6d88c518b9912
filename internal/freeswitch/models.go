package freeswitch

import "reflect"

// Flag is a string-encoded boolean. The remote API treats it as an opaque
// string, so it is never converted to a native bool on the wire.
type Flag string

const (
	FlagTrue  Flag = "true"
	FlagFalse Flag = "false"
)

// Bool reports whether f is "true"
func (f Flag) Bool() bool {
	return f == FlagTrue
}

// FlagOf converts b to a Flag
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// FlagPtr returns a pointer to FlagOf(b)
func FlagPtr(b bool) *Flag {
	f := FlagOf(b)
	return &f
}

// String returns a pointer to s
func String(s string) *string {
	return &s
}

// Domain is a SIP namespace under which extensions and mailboxes live
type Domain struct {
	DomainUUID    string  `json:"domain_uuid"`
	DomainName    string  `json:"domain_name"`
	DomainEnabled Flag    `json:"domain_enabled"`
	CreatedAt     *string `json:"created_at,omitempty"`
}

func (d Domain) ID() string { return d.DomainUUID }

type DomainCreate struct {
	DomainName    string `json:"domain_name" form:"domain_name" yaml:"domain_name"`
	DomainEnabled *Flag  `json:"domain_enabled,omitempty" form:"domain_enabled" yaml:"domain_enabled,omitempty"`
}

type DomainUpdate struct {
	DomainName    *string `json:"domain_name,omitempty" form:"domain_name"`
	DomainEnabled *Flag   `json:"domain_enabled,omitempty" form:"domain_enabled"`
}

type Contact struct {
	ContactUUID        string  `json:"contact_uuid"`
	ContactName        *string `json:"contact_name,omitempty"`
	ContactEmail       *string `json:"contact_email,omitempty"`
	ContactDescription *string `json:"contact_description,omitempty"`
	CreatedAt          *string `json:"created_at,omitempty"`
}

func (c Contact) ID() string { return c.ContactUUID }

type ContactCreate struct {
	ContactName        *string `json:"contact_name,omitempty" form:"contact_name"`
	ContactEmail       *string `json:"contact_email,omitempty" form:"contact_email"`
	ContactDescription *string `json:"contact_description,omitempty" form:"contact_description"`
}

type ContactUpdate = ContactCreate

type User struct {
	UserUUID    string  `json:"user_uuid"`
	DomainUUID  string  `json:"domain_uuid"`
	ContactUUID *string `json:"contact_uuid,omitempty"`
	Username    *string `json:"username,omitempty"`
	CreatedAt   *string `json:"created_at,omitempty"`
}

func (u User) ID() string { return u.UserUUID }

type UserCreate struct {
	DomainUUID  string  `json:"domain_uuid" form:"domain_uuid"`
	ContactUUID *string `json:"contact_uuid,omitempty" form:"contact_uuid"`
	Username    *string `json:"username,omitempty" form:"username"`
}

type UserUpdate struct {
	Username    *string `json:"username,omitempty" form:"username"`
	ContactUUID *string `json:"contact_uuid,omitempty" form:"contact_uuid"`
}

// ExtensionAttributes are the optional telephony attributes shared by an
// extension record and its create/update payloads.
type ExtensionAttributes struct {
	NumberAlias                         *string `json:"number_alias,omitempty" form:"number_alias" yaml:"number_alias,omitempty"`
	ExtensionType                       *string `json:"extension_type,omitempty" form:"extension_type" yaml:"extension_type,omitempty"`
	Password                            *string `json:"password,omitempty" form:"password" yaml:"password,omitempty"`
	MWIAccount                          *string `json:"mwi_account,omitempty" form:"mwi_account" yaml:"mwi_account,omitempty"`
	AuthACL                             *string `json:"auth_acl,omitempty" form:"auth_acl" yaml:"auth_acl,omitempty"`
	CIDR                                *string `json:"cidr,omitempty" form:"cidr" yaml:"cidr,omitempty"`
	CallGroup                           *string `json:"call_group,omitempty" form:"call_group" yaml:"call_group,omitempty"`
	CallScreenEnabled                   *Flag   `json:"call_screen_enabled,omitempty" form:"call_screen_enabled" yaml:"call_screen_enabled,omitempty"`
	UserRecord                          *string `json:"user_record,omitempty" form:"user_record" yaml:"user_record,omitempty"`
	HoldMusic                           *string `json:"hold_music,omitempty" form:"hold_music" yaml:"hold_music,omitempty"`
	TollAllow                           *string `json:"toll_allow,omitempty" form:"toll_allow" yaml:"toll_allow,omitempty"`
	AccountCode                         *string `json:"accountcode,omitempty" form:"accountcode" yaml:"accountcode,omitempty"`
	UserContext                         *string `json:"user_context,omitempty" form:"user_context" yaml:"user_context,omitempty"`
	EffectiveCallerIDName               *string `json:"effective_caller_id_name,omitempty" form:"effective_caller_id_name" yaml:"effective_caller_id_name,omitempty"`
	EffectiveCallerIDNumber             *string `json:"effective_caller_id_number,omitempty" form:"effective_caller_id_number" yaml:"effective_caller_id_number,omitempty"`
	OutboundCallerIDName                *string `json:"outbound_caller_id_name,omitempty" form:"outbound_caller_id_name" yaml:"outbound_caller_id_name,omitempty"`
	OutboundCallerIDNumber              *string `json:"outbound_caller_id_number,omitempty" form:"outbound_caller_id_number" yaml:"outbound_caller_id_number,omitempty"`
	EmergencyCallerIDName               *string `json:"emergency_caller_id_name,omitempty" form:"emergency_caller_id_name" yaml:"emergency_caller_id_name,omitempty"`
	EmergencyCallerIDNumber             *string `json:"emergency_caller_id_number,omitempty" form:"emergency_caller_id_number" yaml:"emergency_caller_id_number,omitempty"`
	MissedCallApp                       *string `json:"missed_call_app,omitempty" form:"missed_call_app" yaml:"missed_call_app,omitempty"`
	MissedCallData                      *string `json:"missed_call_data,omitempty" form:"missed_call_data" yaml:"missed_call_data,omitempty"`
	DirectoryFirstName                  *string `json:"directory_first_name,omitempty" form:"directory_first_name" yaml:"directory_first_name,omitempty"`
	DirectoryLastName                   *string `json:"directory_last_name,omitempty" form:"directory_last_name" yaml:"directory_last_name,omitempty"`
	DirectoryVisible                    *Flag   `json:"directory_visible,omitempty" form:"directory_visible" yaml:"directory_visible,omitempty"`
	DirectoryExtenVisible               *Flag   `json:"directory_exten_visible,omitempty" form:"directory_exten_visible" yaml:"directory_exten_visible,omitempty"`
	LimitMax                            *string `json:"limit_max,omitempty" form:"limit_max" yaml:"limit_max,omitempty"`
	CallTimeout                         *string `json:"call_timeout,omitempty" form:"call_timeout" yaml:"call_timeout,omitempty"`
	MaxRegistrations                    *string `json:"max_registrations,omitempty" form:"max_registrations" yaml:"max_registrations,omitempty"`
	LimitDestination                    *string `json:"limit_destination,omitempty" form:"limit_destination" yaml:"limit_destination,omitempty"`
	SIPForceContact                     *string `json:"sip_force_contact,omitempty" form:"sip_force_contact" yaml:"sip_force_contact,omitempty"`
	SIPForceExpires                     *string `json:"sip_force_expires,omitempty" form:"sip_force_expires" yaml:"sip_force_expires,omitempty"`
	NibbleAccount                       *string `json:"nibble_account,omitempty" form:"nibble_account" yaml:"nibble_account,omitempty"`
	SIPBypassMedia                      *string `json:"sip_bypass_media,omitempty" form:"sip_bypass_media" yaml:"sip_bypass_media,omitempty"`
	AbsoluteCodecString                 *string `json:"absolute_codec_string,omitempty" form:"absolute_codec_string" yaml:"absolute_codec_string,omitempty"`
	ForcePing                           *Flag   `json:"force_ping,omitempty" form:"force_ping" yaml:"force_ping,omitempty"`
	ForwardAllEnabled                   *Flag   `json:"forward_all_enabled,omitempty" form:"forward_all_enabled" yaml:"forward_all_enabled,omitempty"`
	ForwardAllDestination               *string `json:"forward_all_destination,omitempty" form:"forward_all_destination" yaml:"forward_all_destination,omitempty"`
	ForwardBusyEnabled                  *Flag   `json:"forward_busy_enabled,omitempty" form:"forward_busy_enabled" yaml:"forward_busy_enabled,omitempty"`
	ForwardBusyDestination              *string `json:"forward_busy_destination,omitempty" form:"forward_busy_destination" yaml:"forward_busy_destination,omitempty"`
	ForwardNoAnswerEnabled              *Flag   `json:"forward_no_answer_enabled,omitempty" form:"forward_no_answer_enabled" yaml:"forward_no_answer_enabled,omitempty"`
	ForwardNoAnswerDestination          *string `json:"forward_no_answer_destination,omitempty" form:"forward_no_answer_destination" yaml:"forward_no_answer_destination,omitempty"`
	ForwardUserNotRegisteredEnabled     *Flag   `json:"forward_user_not_registered_enabled,omitempty" form:"forward_user_not_registered_enabled" yaml:"forward_user_not_registered_enabled,omitempty"`
	ForwardUserNotRegisteredDestination *string `json:"forward_user_not_registered_destination,omitempty" form:"forward_user_not_registered_destination" yaml:"forward_user_not_registered_destination,omitempty"`
	FollowMeUUID                        *string `json:"follow_me_uuid,omitempty" form:"follow_me_uuid" yaml:"follow_me_uuid,omitempty"`
	FollowMeEnabled                     *Flag   `json:"follow_me_enabled,omitempty" form:"follow_me_enabled" yaml:"follow_me_enabled,omitempty"`
	DialString                          *string `json:"dial_string,omitempty" form:"dial_string" yaml:"dial_string,omitempty"`
	ExtensionLanguage                   *string `json:"extension_language,omitempty" form:"extension_language" yaml:"extension_language,omitempty"`
	ExtensionDialect                    *string `json:"extension_dialect,omitempty" form:"extension_dialect" yaml:"extension_dialect,omitempty"`
	ExtensionVoice                      *string `json:"extension_voice,omitempty" form:"extension_voice" yaml:"extension_voice,omitempty"`
	Random                              *string `json:"random,omitempty" form:"random" yaml:"random,omitempty"`
}

// Extension is a dialable endpoint within a domain
type Extension struct {
	ExtensionUUID string `json:"extension_uuid"`
	DomainUUID    string `json:"domain_uuid"`
	Extension     string `json:"extension"`
	Enabled       Flag   `json:"enabled"`
	ExtensionAttributes
	CreatedAt *string `json:"created_at,omitempty"`
}

func (e Extension) ID() string { return e.ExtensionUUID }

type ExtensionCreate struct {
	DomainUUID          string `json:"domain_uuid" form:"domain_uuid" yaml:"domain_uuid"`
	Extension           string `json:"extension" form:"extension" yaml:"extension"`
	Enabled             *Flag  `json:"enabled,omitempty" form:"enabled" yaml:"enabled,omitempty"`
	ExtensionAttributes `yaml:",inline"`
}

// Prune returns a copy of e without the optional fields left empty on the
// edit form.
func (e ExtensionCreate) Prune() ExtensionCreate {
	pruneEmpty(reflect.ValueOf(&e).Elem())
	return e
}

// ExtensionUpdate is a partial ExtensionCreate
type ExtensionUpdate struct {
	DomainUUID *string `json:"domain_uuid,omitempty" form:"domain_uuid"`
	Extension  *string `json:"extension,omitempty" form:"extension"`
	Enabled    *Flag   `json:"enabled,omitempty" form:"enabled"`
	ExtensionAttributes
}

// Prune returns a copy of e without the fields left empty on the edit form.
func (e ExtensionUpdate) Prune() ExtensionUpdate {
	pruneEmpty(reflect.ValueOf(&e).Elem())
	return e
}

// pruneEmpty sets every string-kinded pointer field holding "" to nil,
// descending into embedded structs.
func pruneEmpty(v reflect.Value) {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.Struct:
			if v.Type().Field(i).Anonymous {
				pruneEmpty(field)
			}
		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.String && field.Elem().String() == "" {
				field.Set(reflect.Zero(field.Type()))
			}
		}
	}
}

// Setting types accepted by the directory
const (
	SettingTypeParam    = "param"
	SettingTypeVariable = "variable"
)

type ExtensionSetting struct {
	ExtensionSettingUUID    string  `json:"extension_setting_uuid"`
	ExtensionUUID           string  `json:"extension_uuid"`
	ExtensionSettingType    string  `json:"extension_setting_type"`
	ExtensionSettingName    string  `json:"extension_setting_name"`
	ExtensionSettingValue   *string `json:"extension_setting_value,omitempty"`
	ExtensionSettingEnabled Flag    `json:"extension_setting_enabled"`
	CreatedAt               *string `json:"created_at,omitempty"`
}

func (s ExtensionSetting) ID() string { return s.ExtensionSettingUUID }

type ExtensionSettingCreate struct {
	ExtensionUUID           string  `json:"extension_uuid" form:"extension_uuid"`
	ExtensionSettingType    string  `json:"extension_setting_type" form:"extension_setting_type"`
	ExtensionSettingName    string  `json:"extension_setting_name" form:"extension_setting_name"`
	ExtensionSettingValue   *string `json:"extension_setting_value,omitempty" form:"extension_setting_value"`
	ExtensionSettingEnabled *Flag   `json:"extension_setting_enabled,omitempty" form:"extension_setting_enabled"`
}

type ExtensionSettingUpdate struct {
	ExtensionSettingType    *string `json:"extension_setting_type,omitempty" form:"extension_setting_type"`
	ExtensionSettingName    *string `json:"extension_setting_name,omitempty" form:"extension_setting_name"`
	ExtensionSettingValue   *string `json:"extension_setting_value,omitempty" form:"extension_setting_value"`
	ExtensionSettingEnabled *Flag   `json:"extension_setting_enabled,omitempty" form:"extension_setting_enabled"`
}

// Voicemail is a mailbox bound to a domain and a numeric id
type Voicemail struct {
	VoicemailUUID            string  `json:"voicemail_uuid"`
	DomainUUID               string  `json:"domain_uuid"`
	VoicemailID              string  `json:"voicemail_id"`
	VoicemailEnabled         Flag    `json:"voicemail_enabled"`
	VoicemailPassword        *string `json:"voicemail_password,omitempty"`
	VoicemailAttachFile      *Flag   `json:"voicemail_attach_file,omitempty"`
	VoicemailLocalAfterEmail *Flag   `json:"voicemail_local_after_email,omitempty"`
	VoicemailMailTo          *string `json:"voicemail_mail_to,omitempty"`
	CreatedAt                *string `json:"created_at,omitempty"`
}

func (v Voicemail) ID() string { return v.VoicemailUUID }

type VoicemailCreate struct {
	DomainUUID               string  `json:"domain_uuid" form:"domain_uuid" yaml:"domain_uuid"`
	VoicemailID              string  `json:"voicemail_id" form:"voicemail_id" yaml:"voicemail_id"`
	VoicemailEnabled         *Flag   `json:"voicemail_enabled,omitempty" form:"voicemail_enabled" yaml:"voicemail_enabled,omitempty"`
	VoicemailPassword        *string `json:"voicemail_password,omitempty" form:"voicemail_password" yaml:"voicemail_password,omitempty"`
	VoicemailAttachFile      *Flag   `json:"voicemail_attach_file,omitempty" form:"voicemail_attach_file" yaml:"voicemail_attach_file,omitempty"`
	VoicemailLocalAfterEmail *Flag   `json:"voicemail_local_after_email,omitempty" form:"voicemail_local_after_email" yaml:"voicemail_local_after_email,omitempty"`
	VoicemailMailTo          *string `json:"voicemail_mail_to,omitempty" form:"voicemail_mail_to" yaml:"voicemail_mail_to,omitempty"`
}

type VoicemailUpdate struct {
	VoicemailID              *string `json:"voicemail_id,omitempty" form:"voicemail_id"`
	VoicemailEnabled         *Flag   `json:"voicemail_enabled,omitempty" form:"voicemail_enabled"`
	VoicemailPassword        *string `json:"voicemail_password,omitempty" form:"voicemail_password"`
	VoicemailAttachFile      *Flag   `json:"voicemail_attach_file,omitempty" form:"voicemail_attach_file"`
	VoicemailLocalAfterEmail *Flag   `json:"voicemail_local_after_email,omitempty" form:"voicemail_local_after_email"`
	VoicemailMailTo          *string `json:"voicemail_mail_to,omitempty" form:"voicemail_mail_to"`
}

type Dialplan struct {
	DialplanUUID    string  `json:"dialplan_uuid"`
	DomainUUID      *string `json:"domain_uuid,omitempty"`
	DialplanName    *string `json:"dialplan_name,omitempty"`
	DialplanContext *string `json:"dialplan_context,omitempty"`
	DialplanXML     *string `json:"dialplan_xml,omitempty"`
	DialplanEnabled Flag    `json:"dialplan_enabled"`
	DialplanOrder   int     `json:"dialplan_order"`
	CreatedAt       *string `json:"created_at,omitempty"`
}

func (d Dialplan) ID() string { return d.DialplanUUID }

type DialplanCreate struct {
	DomainUUID      *string `json:"domain_uuid,omitempty" form:"domain_uuid"`
	DialplanName    *string `json:"dialplan_name,omitempty" form:"dialplan_name"`
	DialplanContext *string `json:"dialplan_context,omitempty" form:"dialplan_context"`
	DialplanXML     *string `json:"dialplan_xml,omitempty" form:"dialplan_xml"`
	DialplanEnabled *Flag   `json:"dialplan_enabled,omitempty" form:"dialplan_enabled"`
	DialplanOrder   *int    `json:"dialplan_order,omitempty" form:"dialplan_order"`
}

type DialplanUpdate struct {
	DialplanName    *string `json:"dialplan_name,omitempty" form:"dialplan_name"`
	DialplanContext *string `json:"dialplan_context,omitempty" form:"dialplan_context"`
	DialplanXML     *string `json:"dialplan_xml,omitempty" form:"dialplan_xml"`
	DialplanEnabled *Flag   `json:"dialplan_enabled,omitempty" form:"dialplan_enabled"`
	DialplanOrder   *int    `json:"dialplan_order,omitempty" form:"dialplan_order"`
}

// Registration is a live SIP registration. Read-only.
type Registration struct {
	RegUUID   string  `json:"reg_uuid"`
	RegUser   string  `json:"reg_user"`
	Realm     string  `json:"realm"`
	Hostname  *string `json:"hostname,omitempty"`
	Expires   *int64  `json:"expires,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`
}

func (r Registration) ID() string { return r.RegUUID }
