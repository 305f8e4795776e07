// Package messages holds the localized text of script-visible bridge errors.
//
// Messages are registered in the golang.org/x/text default catalog at init
// and formatted through a message.Printer for the requested language.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys
const (
	TypeNotVisible = "bridge.type.not.visible"
	MemberNotFound = "bridge.member.not.found"
	IllegalAccess  = "bridge.field.illegal.access"
	FieldType      = "bridge.field.type"
	AccessDenied   = "bridge.access.denied"
	Coercion       = "bridge.coercion"
	MethodAssign   = "bridge.method.assign"
	Invocation     = "bridge.invocation"
)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		TypeNotVisible: "Access to host type %q is prohibited.",
		MemberNotFound: "Host type %q has no public instance field or method named %q.",
		IllegalAccess:  "Field %q of host type %q cannot be written: access denied.",
		FieldType:      "Value of type %s cannot be assigned to field %q of type %s.",
		AccessDenied:   "Reflective access to host type %q was denied.",
		Coercion:       "Cannot convert value of type %s to %s.",
		MethodAssign:   "Host method %q cannot be assigned to.",
		Invocation:     "Call to %s.%s failed: %v",
	},
	language.German: {
		TypeNotVisible: "Zugriff auf den Host-Typ %q ist untersagt.",
		MemberNotFound: "Der Host-Typ %q hat kein öffentliches Feld und keine Methode namens %q.",
		IllegalAccess:  "Das Feld %q des Host-Typs %q kann nicht geschrieben werden: Zugriff verweigert.",
		FieldType:      "Ein Wert vom Typ %s kann dem Feld %q vom Typ %s nicht zugewiesen werden.",
		AccessDenied:   "Reflektiver Zugriff auf den Host-Typ %q wurde verweigert.",
		Coercion:       "Ein Wert vom Typ %s kann nicht nach %s konvertiert werden.",
		MethodAssign:   "Der Host-Methode %q kann nichts zugewiesen werden.",
		Invocation:     "Aufruf von %s.%s ist fehlgeschlagen: %v",
	},
}

func init() {
	for tag, entries := range catalog {
		for key, msg := range entries {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Printer is a message printer bound to one language.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a printer for tag. Unsupported languages fall back to English.
func NewPrinter(tag language.Tag) *Printer {
	supported := Supported()
	_, idx, _ := language.NewMatcher(supported).Match(tag)
	return &Printer{p: message.NewPrinter(supported[idx])}
}

// Sprintf formats the message registered under key.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Supported returns the languages the catalog has translations for, English first.
func Supported() []language.Tag {
	return []language.Tag{language.English, language.German}
}
